package lapinstance

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidEnum is returned when a value is not part of its enumeration.
var ErrInvalidEnum = errors.New("invalid enum value")

type enum[T ~string] struct {
	name   string
	values []T
}

func (e enum[T]) validate(v T) error {
	if !slices.Contains(e.values, v) {
		return fmt.Errorf("%w: %q is not a valid %s", ErrInvalidEnum, string(v), e.name)
	}
	return nil
}

// parse is lenient about case and surrounding whitespace, the wire format is not.
func (e enum[T]) parse(s string) (T, error) {
	v := T(strings.ToUpper(strings.TrimSpace(s)))
	if err := e.validate(v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

func (e enum[T]) unmarshal(dst *T, text []byte) error {
	v := T(text)
	if err := e.validate(v); err != nil {
		return err
	}
	*dst = v
	return nil
}

// RaidType identifies a raid instance.
type RaidType string

const (
	RaidTypeOnyxia        RaidType = "ONYXIA"
	RaidTypeMoltenCore    RaidType = "MOLTEN_CORE"
	RaidTypeZulGurub      RaidType = "ZUL_GURUB"
	RaidTypeBlackwingLair RaidType = "BLACKWING_LAIR"
	RaidTypeAhnQiraj20    RaidType = "AHN_QIRAJ_20"
	RaidTypeAhnQiraj40    RaidType = "AHN_QIRAJ_40"
	RaidTypeNaxxramas     RaidType = "NAXXRAMAS"
)

var raidTypes = enum[RaidType]{
	name: "raid type",
	values: []RaidType{
		RaidTypeOnyxia,
		RaidTypeMoltenCore,
		RaidTypeZulGurub,
		RaidTypeBlackwingLair,
		RaidTypeAhnQiraj20,
		RaidTypeAhnQiraj40,
		RaidTypeNaxxramas,
	},
}

var raidTypeLabels = map[RaidType]string{
	RaidTypeOnyxia:        "Onyxia",
	RaidTypeMoltenCore:    "Molten Core",
	RaidTypeZulGurub:      "Zul'Gurub",
	RaidTypeBlackwingLair: "Blackwing Lair",
	RaidTypeAhnQiraj20:    "Ahn'Qiraj 20",
	RaidTypeAhnQiraj40:    "Ahn'Qiraj 40",
	RaidTypeNaxxramas:     "Naxxramas",
}

// RaidTypes returns all raid types in display order.
func RaidTypes() []RaidType { return slices.Clone(raidTypes.values) }

// ParseRaidType parses a raid type, ignoring case.
func ParseRaidType(s string) (RaidType, error) { return raidTypes.parse(s) }

func (t RaidType) String() string  { return string(t) }
func (t RaidType) IsValid() bool   { return t.Validate() == nil }
func (t RaidType) Validate() error { return raidTypes.validate(t) }

// Label returns the display name of the raid, or the raw value if unknown.
func (t RaidType) Label() string {
	if l, ok := raidTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t RaidType) MarshalText() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return []byte(t), nil
}

func (t *RaidType) UnmarshalText(text []byte) error { return raidTypes.unmarshal(t, text) }

// CharacterClass is the playable class of a character.
type CharacterClass string

const (
	CharacterClassWarrior CharacterClass = "WARRIOR"
	CharacterClassPaladin CharacterClass = "PALADIN"
	CharacterClassDruid   CharacterClass = "DRUID"
	CharacterClassPriest  CharacterClass = "PRIEST"
	CharacterClassRogue   CharacterClass = "ROGUE"
	CharacterClassMage    CharacterClass = "MAGE"
	CharacterClassWarlock CharacterClass = "WARLOCK"
	CharacterClassHunter  CharacterClass = "HUNTER"
)

var characterClasses = enum[CharacterClass]{
	name: "character class",
	values: []CharacterClass{
		CharacterClassWarrior,
		CharacterClassPaladin,
		CharacterClassDruid,
		CharacterClassPriest,
		CharacterClassRogue,
		CharacterClassMage,
		CharacterClassWarlock,
		CharacterClassHunter,
	},
}

func CharacterClasses() []CharacterClass { return slices.Clone(characterClasses.values) }

func ParseCharacterClass(s string) (CharacterClass, error) { return characterClasses.parse(s) }

func (c CharacterClass) String() string  { return string(c) }
func (c CharacterClass) IsValid() bool   { return c.Validate() == nil }
func (c CharacterClass) Validate() error { return characterClasses.validate(c) }

func (c CharacterClass) MarshalText() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return []byte(c), nil
}

func (c *CharacterClass) UnmarshalText(text []byte) error {
	return characterClasses.unmarshal(c, text)
}

// CharacterRole is the raid role of a character.
type CharacterRole string

const (
	CharacterRoleHeal      CharacterRole = "HEAL"
	CharacterRoleTank      CharacterRole = "TANK"
	CharacterRoleDPSRanged CharacterRole = "DPS_RANGED"
	CharacterRoleDPSMelee  CharacterRole = "DPS_CAC"
)

var characterRoles = enum[CharacterRole]{
	name: "character role",
	values: []CharacterRole{
		CharacterRoleHeal,
		CharacterRoleTank,
		CharacterRoleDPSRanged,
		CharacterRoleDPSMelee,
	},
}

func CharacterRoles() []CharacterRole { return slices.Clone(characterRoles.values) }

func ParseCharacterRole(s string) (CharacterRole, error) { return characterRoles.parse(s) }

func (r CharacterRole) String() string  { return string(r) }
func (r CharacterRole) IsValid() bool   { return r.Validate() == nil }
func (r CharacterRole) Validate() error { return characterRoles.validate(r) }

func (r CharacterRole) MarshalText() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return []byte(r), nil
}

func (r *CharacterRole) UnmarshalText(text []byte) error {
	return characterRoles.unmarshal(r, text)
}

// CharacterSpec is a class and role composite.
type CharacterSpec string

const (
	CharacterSpecWarriorTank  CharacterSpec = "WARRIOR_TANK"
	CharacterSpecPaladinProt  CharacterSpec = "PALADIN_PROT"
	CharacterSpecDruidTank    CharacterSpec = "DRUID_TANK"
	CharacterSpecPriestHeal   CharacterSpec = "PRIEST_HEAL"
	CharacterSpecPaladinHeal  CharacterSpec = "PALADIN_HEAL"
	CharacterSpecDruidResto   CharacterSpec = "DRUID_RESTO"
	CharacterSpecRogue        CharacterSpec = "ROGUE"
	CharacterSpecWarriorDPS   CharacterSpec = "WARRIOR_DPS"
	CharacterSpecPaladinRet   CharacterSpec = "PALADIN_RET"
	CharacterSpecDruidCat     CharacterSpec = "DRUID_CAT"
	CharacterSpecMage         CharacterSpec = "MAGE"
	CharacterSpecWarlock      CharacterSpec = "WARLOCK"
	CharacterSpecHunter       CharacterSpec = "HUNTER"
	CharacterSpecPriestShadow CharacterSpec = "PRIEST_SHADOW"
	CharacterSpecDruidBalance CharacterSpec = "DRUID_BALANCE"
)

var characterSpecs = enum[CharacterSpec]{
	name: "character spec",
	values: []CharacterSpec{
		CharacterSpecWarriorTank,
		CharacterSpecPaladinProt,
		CharacterSpecDruidTank,
		CharacterSpecPriestHeal,
		CharacterSpecPaladinHeal,
		CharacterSpecDruidResto,
		CharacterSpecRogue,
		CharacterSpecWarriorDPS,
		CharacterSpecPaladinRet,
		CharacterSpecDruidCat,
		CharacterSpecMage,
		CharacterSpecWarlock,
		CharacterSpecHunter,
		CharacterSpecPriestShadow,
		CharacterSpecDruidBalance,
	},
}

type specInfo struct {
	class CharacterClass
	role  CharacterRole
}

var specInfos = map[CharacterSpec]specInfo{
	CharacterSpecWarriorTank:  {CharacterClassWarrior, CharacterRoleTank},
	CharacterSpecPaladinProt:  {CharacterClassPaladin, CharacterRoleTank},
	CharacterSpecDruidTank:    {CharacterClassDruid, CharacterRoleTank},
	CharacterSpecPriestHeal:   {CharacterClassPriest, CharacterRoleHeal},
	CharacterSpecPaladinHeal:  {CharacterClassPaladin, CharacterRoleHeal},
	CharacterSpecDruidResto:   {CharacterClassDruid, CharacterRoleHeal},
	CharacterSpecRogue:        {CharacterClassRogue, CharacterRoleDPSMelee},
	CharacterSpecWarriorDPS:   {CharacterClassWarrior, CharacterRoleDPSMelee},
	CharacterSpecPaladinRet:   {CharacterClassPaladin, CharacterRoleDPSMelee},
	CharacterSpecDruidCat:     {CharacterClassDruid, CharacterRoleDPSMelee},
	CharacterSpecMage:         {CharacterClassMage, CharacterRoleDPSRanged},
	CharacterSpecWarlock:      {CharacterClassWarlock, CharacterRoleDPSRanged},
	CharacterSpecHunter:       {CharacterClassHunter, CharacterRoleDPSRanged},
	CharacterSpecPriestShadow: {CharacterClassPriest, CharacterRoleDPSRanged},
	CharacterSpecDruidBalance: {CharacterClassDruid, CharacterRoleDPSRanged},
}

func CharacterSpecs() []CharacterSpec { return slices.Clone(characterSpecs.values) }

func ParseCharacterSpec(s string) (CharacterSpec, error) { return characterSpecs.parse(s) }

func (s CharacterSpec) String() string  { return string(s) }
func (s CharacterSpec) IsValid() bool   { return s.Validate() == nil }
func (s CharacterSpec) Validate() error { return characterSpecs.validate(s) }

// Class returns the class part of the spec, or an empty class if the spec is unknown.
func (s CharacterSpec) Class() CharacterClass { return specInfos[s].class }

// Role returns the role part of the spec, or an empty role if the spec is unknown.
func (s CharacterSpec) Role() CharacterRole { return specInfos[s].role }

func (s CharacterSpec) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (s *CharacterSpec) UnmarshalText(text []byte) error {
	return characterSpecs.unmarshal(s, text)
}

// RaidSubscriptionResponse is the answer of a user to a raid.
type RaidSubscriptionResponse string

const (
	RaidSubscriptionResponsePresent RaidSubscriptionResponse = "PRESENT"
	RaidSubscriptionResponseLate    RaidSubscriptionResponse = "LATE"
	RaidSubscriptionResponseBench   RaidSubscriptionResponse = "BENCH"
	RaidSubscriptionResponseAbsent  RaidSubscriptionResponse = "ABSENT"
)

var raidSubscriptionResponses = enum[RaidSubscriptionResponse]{
	name: "raid subscription response",
	values: []RaidSubscriptionResponse{
		RaidSubscriptionResponsePresent,
		RaidSubscriptionResponseLate,
		RaidSubscriptionResponseBench,
		RaidSubscriptionResponseAbsent,
	},
}

func RaidSubscriptionResponses() []RaidSubscriptionResponse {
	return slices.Clone(raidSubscriptionResponses.values)
}

func ParseRaidSubscriptionResponse(s string) (RaidSubscriptionResponse, error) {
	return raidSubscriptionResponses.parse(s)
}

func (r RaidSubscriptionResponse) String() string  { return string(r) }
func (r RaidSubscriptionResponse) IsValid() bool   { return r.Validate() == nil }
func (r RaidSubscriptionResponse) Validate() error { return raidSubscriptionResponses.validate(r) }

func (r RaidSubscriptionResponse) MarshalText() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return []byte(r), nil
}

func (r *RaidSubscriptionResponse) UnmarshalText(text []byte) error {
	return raidSubscriptionResponses.unmarshal(r, text)
}

// UserRole is an authorization role of the current session.
type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleUser  UserRole = "USER"
)

var userRoles = enum[UserRole]{
	name:   "user role",
	values: []UserRole{UserRoleAdmin, UserRoleUser},
}

func UserRoles() []UserRole { return slices.Clone(userRoles.values) }

func ParseUserRole(s string) (UserRole, error) { return userRoles.parse(s) }

func (r UserRole) String() string  { return string(r) }
func (r UserRole) IsValid() bool   { return r.Validate() == nil }
func (r UserRole) Validate() error { return userRoles.validate(r) }

func (r UserRole) MarshalText() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return []byte(r), nil
}

func (r *UserRole) UnmarshalText(text []byte) error { return userRoles.unmarshal(r, text) }
