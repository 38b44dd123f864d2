package bus

import (
	"fmt"

	"github.com/eyedrop-cli/eyedrop/colormath"
)

// Kind names a message of the protocol.
type Kind string

const (
	StartPicker     Kind = "startPicker"
	StopPicker      Kind = "stopPicker"
	ColorPicked     Kind = "colorPicked"
	ColorUpdated    Kind = "colorUpdated"
	PickerCancelled Kind = "pickerCancelled"
	GetColor        Kind = "getColor"
	GetFavorites    Kind = "getFavorites"
	AddFavorite     Kind = "addFavorite"
	RemoveFavorite  Kind = "removeFavorite"
)

// Kinds lists every message kind.
var Kinds = []Kind{
	StartPicker, StopPicker,
	ColorPicked, ColorUpdated, PickerCancelled,
	GetColor, GetFavorites, AddFavorite, RemoveFavorite,
}

// Expects reports whether a message of this kind is answered with a Response.
func (k Kind) Expects() bool {
	switch k {
	case GetColor, GetFavorites, AddFavorite, RemoveFavorite:
		return true
	default:
		return false
	}
}

// Target is the role a message of this kind is routed to when sent without an explicit address.
func (k Kind) Target() Role {
	switch k {
	case StartPicker, StopPicker:
		return RolePage
	case ColorUpdated:
		return RoleSurface
	default:
		return RoleHub
	}
}

// Message is a single protocol message. Color is set only for kinds that carry one.
type Message struct {
	Kind  Kind            `json:"type" jsonschema:"enum=startPicker,enum=stopPicker,enum=colorPicked,enum=colorUpdated,enum=pickerCancelled,enum=getColor,enum=getFavorites,enum=addFavorite,enum=removeFavorite"`
	Color colormath.Color `json:"color,omitempty" jsonschema:"pattern=^#[0-9A-F]{6}$"`
}

func (m Message) String() string {
	if m.Color == "" {
		return string(m.Kind)
	}
	return fmt.Sprintf("%s(%s)", m.Kind, m.Color)
}

// Response answers a request.
type Response struct {
	Color     colormath.Color   `json:"color,omitempty"`
	Favorites []colormath.Color `json:"favorites,omitempty"`
	Success   bool              `json:"success,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// Role is the kind of context an endpoint belongs to.
type Role int

const (
	RoleHub Role = iota
	RoleSurface
	RolePage
)

func (r Role) String() string {
	switch r {
	case RoleHub:
		return "hub"
	case RoleSurface:
		return "surface"
	case RolePage:
		return "page"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Address identifies an endpoint. The hub has no ID.
type Address struct {
	Role Role
	ID   string
}

// HubAddr is the address of the only hub.
var HubAddr = Address{Role: RoleHub}

// PageAddr is the address of the page context with the given id.
func PageAddr(id string) Address {
	return Address{Role: RolePage, ID: id}
}

// SurfaceAddr is the address of the surface with the given id.
func SurfaceAddr(id string) Address {
	return Address{Role: RoleSurface, ID: id}
}

func (a Address) String() string {
	if a.ID == "" {
		return a.Role.String()
	}
	return a.Role.String() + "/" + a.ID
}
