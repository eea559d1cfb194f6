package model

import "strconv"

// CastMemberType 演职人员类型.
type CastMemberType int

const (
	TypeDirector CastMemberType = 1
	TypeActor    CastMemberType = 2
)

// castMemberTypeNames 类型编码与展示名.
var castMemberTypeNames = map[CastMemberType]string{
	TypeDirector: "Director",
	TypeActor:    "Actor",
}

// CastMemberTypes 返回全部合法类型编码的字符串形式.
func CastMemberTypes() []string {
	return []string{strconv.Itoa(int(TypeDirector)), strconv.Itoa(int(TypeActor))}
}

// CastMemberTypeNames 返回全部类型展示名，顺序与编码一致.
func CastMemberTypeNames() []string {
	return []string{castMemberTypeNames[TypeDirector], castMemberTypeNames[TypeActor]}
}

// String 返回类型展示名.
func (t CastMemberType) String() string {
	if name, ok := castMemberTypeNames[t]; ok {
		return name
	}

	return strconv.Itoa(int(t))
}

// ParseCastMemberType 同时接受编码（"1"）与展示名（"Director"）.
func ParseCastMemberType(s string) (CastMemberType, bool) {
	for t, name := range castMemberTypeNames {
		if s == name || s == strconv.Itoa(int(t)) {
			return t, true
		}
	}

	return 0, false
}

// CastMember 演职人员.
type CastMember struct {
	Base
	Name string         `gorm:"size:255;not null;index"`
	Type CastMemberType `gorm:"not null;index"`
}
