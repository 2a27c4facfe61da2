package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
)

// Direction is the way a navbar link moves in the display order
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection parses "up" or "down"
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionUp, DirectionDown:
		return d, nil
	default:
		return "", shared.NewDomainError("INVALID_DIRECTION", fmt.Sprintf("Direction must be up or down, got %q", s))
	}
}

// ErrNavbarBoundary is returned when a link cannot move further in a direction
var ErrNavbarBoundary = shared.NewDomainError("NAVBAR_BOUNDARY", "Link is already at the edge of the menu")

// NavbarLink is one entry of the site navigation menu.
// Order values are unique and ascending order is display order.
type NavbarLink struct {
	shared.BaseEntity
	Label string
	URL   string
	Order int
}

// NewNavbarLink creates a menu entry at the given order position
func NewNavbarLink(label, url string, order int) (*NavbarLink, error) {
	l := &NavbarLink{BaseEntity: shared.NewBaseEntity(), Order: order}
	if err := l.Update(label, url); err != nil {
		return nil, err
	}
	return l, nil
}

// Update changes label and URL; order only changes through SwapOrder
func (l *NavbarLink) Update(label, url string) error {
	label = strings.TrimSpace(label)
	url = strings.TrimSpace(url)
	if label == "" {
		return shared.NewDomainError("INVALID_LABEL", "Menu label cannot be empty")
	}
	if len(label) > 100 {
		return shared.NewDomainError("INVALID_LABEL", "Menu label cannot exceed 100 characters")
	}
	if url == "" {
		return shared.NewDomainError("INVALID_URL", "Menu URL cannot be empty")
	}
	l.Label = label
	l.URL = url
	l.Touch()
	return nil
}

// SwapOrder exchanges order values with other
func (l *NavbarLink) SwapOrder(other *NavbarLink) {
	l.Order, other.Order = other.Order, l.Order
	now := time.Now()
	l.UpdatedAt = now
	other.UpdatedAt = now
}

// Neighbor picks the record adjacent to current in direction d from links.
// It returns nil when current is already at that edge.
func Neighbor(links []NavbarLink, current NavbarLink, d Direction) *NavbarLink {
	var best *NavbarLink
	for i := range links {
		candidate := &links[i]
		if candidate.ID == current.ID {
			continue
		}
		switch d {
		case DirectionUp:
			if candidate.Order < current.Order && (best == nil || candidate.Order > best.Order) {
				best = candidate
			}
		case DirectionDown:
			if candidate.Order > current.Order && (best == nil || candidate.Order < best.Order) {
				best = candidate
			}
		}
	}
	return best
}
