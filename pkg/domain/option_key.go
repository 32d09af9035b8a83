package domain

import dErrors "cohort/pkg/domain-errors"

// OptionKey names a participant option stored against a health code.
type OptionKey string

const (
	OptionSharingScope       OptionKey = "SHARING_SCOPE"
	OptionEmailNotifications OptionKey = "EMAIL_NOTIFICATIONS"
	OptionExternalIdentifier OptionKey = "EXTERNAL_IDENTIFIER"
	OptionDataGroups         OptionKey = "DATA_GROUPS"
	OptionLanguages          OptionKey = "LANGUAGES"
)

// AllOptionKeys lists every option kind in a stable order.
func AllOptionKeys() []OptionKey {
	return []OptionKey{
		OptionSharingScope,
		OptionEmailNotifications,
		OptionExternalIdentifier,
		OptionDataGroups,
		OptionLanguages,
	}
}

// DefaultValue is written when a participant leaves the option unset.
func (k OptionKey) DefaultValue() string {
	switch k {
	case OptionSharingScope:
		return string(SharingScopeNone)
	case OptionEmailNotifications:
		return "true"
	default:
		return ""
	}
}

func (k OptionKey) IsValid() bool {
	switch k {
	case OptionSharingScope, OptionEmailNotifications, OptionExternalIdentifier, OptionDataGroups, OptionLanguages:
		return true
	default:
		return false
	}
}

func (k OptionKey) String() string { return string(k) }

// ParseOptionKey constructs an OptionKey from external input.
func ParseOptionKey(s string) (OptionKey, error) {
	k := OptionKey(s)
	if !k.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid option key: "+s)
	}
	return k, nil
}
