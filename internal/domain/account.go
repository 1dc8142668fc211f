package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the reseller hierarchy level of an account. Accounts are owned and
// mutated by the account-management collaborator; this engine only reads them.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSuper  Role = "super"
	RoleSenior Role = "senior"
	RoleMaster Role = "master"
	RoleAgent  Role = "agent"
	RoleMember Role = "member"
)

// Account is a node in the reseller hierarchy. A nil UplineID marks the top
// of the chain.
type Account struct {
	ID                  uuid.UUID  `json:"id"`
	Username            string     `json:"username"`
	Role                Role       `json:"role"`
	UplineID            *uuid.UUID `json:"upline_id,omitempty"`
	CommissionSettingID *uuid.UUID `json:"commission_setting_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// CommissionField names a rate column in a commission setting.
type CommissionField string

const (
	FieldHdpOuFtLg      CommissionField = "hdp_ou_ft_lg"
	FieldHdpOuFtSm      CommissionField = "hdp_ou_ft_sm"
	FieldHdpOuHtLg      CommissionField = "hdp_ou_ht_lg"
	FieldHdpOuHtSm      CommissionField = "hdp_ou_ht_sm"
	FieldMixParlay2     CommissionField = "mix_parlay_2"
	FieldMixParlay3to8  CommissionField = "mix_parlay_3_8"
	FieldMixParlay9to11 CommissionField = "mix_parlay_9_11"
	FieldOneX2Ft        CommissionField = "one_x2_ft"
	FieldCsFt           CommissionField = "cs_ft"
	FieldEoFt           CommissionField = "eo_ft"
)

// CommissionSetting is the per-account rate table, keyed by bet category.
// Rates are basis points of stake (300 = 3%). Each account owns exactly one.
type CommissionSetting struct {
	ID             uuid.UUID `json:"id"`
	HdpOuFtLg      int32     `json:"hdp_ou_ft_lg"`
	HdpOuFtSm      int32     `json:"hdp_ou_ft_sm"`
	HdpOuHtLg      int32     `json:"hdp_ou_ht_lg"`
	HdpOuHtSm      int32     `json:"hdp_ou_ht_sm"`
	MixParlay2     int32     `json:"mix_parlay_2"`
	MixParlay3to8  int32     `json:"mix_parlay_3_8"`
	MixParlay9to11 int32     `json:"mix_parlay_9_11"`
	OneX2Ft        int32     `json:"one_x2_ft"`
	CsFt           int32     `json:"cs_ft"`
	EoFt           int32     `json:"eo_ft"`
	CreatedAt      time.Time `json:"created_at"`
}

// Rate returns the configured rate for the given field, 0 for unknown fields.
func (s *CommissionSetting) Rate(field CommissionField) int32 {
	if s == nil {
		return 0
	}
	switch field {
	case FieldHdpOuFtLg:
		return s.HdpOuFtLg
	case FieldHdpOuFtSm:
		return s.HdpOuFtSm
	case FieldHdpOuHtLg:
		return s.HdpOuHtLg
	case FieldHdpOuHtSm:
		return s.HdpOuHtSm
	case FieldMixParlay2:
		return s.MixParlay2
	case FieldMixParlay3to8:
		return s.MixParlay3to8
	case FieldMixParlay9to11:
		return s.MixParlay9to11
	case FieldOneX2Ft:
		return s.OneX2Ft
	case FieldCsFt:
		return s.CsFt
	case FieldEoFt:
		return s.EoFt
	}
	return 0
}

// UplineEntry is one level of a resolved hierarchy chain: the account together
// with its commission setting (nil when the account has none assigned).
type UplineEntry struct {
	AccountID uuid.UUID
	Role      Role
	Setting   *CommissionSetting
}

// MaxChainDepth bounds the hierarchy walk. A chain longer than this is
// treated as malformed configuration, never followed further.
const MaxChainDepth = 16
