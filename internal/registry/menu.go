package registry

import (
	"sort"

	"github.com/plantops/opsgate/internal/domain/route"
)

// MenuGroup is one category of the navigation menu, with its entries sorted
// by metadata order.
type MenuGroup struct {
	Category string             `json:"category"`
	Routes   []route.Descriptor `json:"routes"`
}

// NavigationMenu groups active, non-hidden routes by metadata category and
// sorts each group by the order field. Entries without an explicit order
// sort after ordered ones; ties keep table order. Categories themselves are
// ordered by the smallest order they contain, then by name.
func (r *Registry) NavigationMenu() []MenuGroup {
	grouped := make(map[string][]route.Descriptor)
	var categories []string
	for _, d := range r.ordered {
		if !d.Active || d.Metadata.Hidden {
			continue
		}
		cat := d.Metadata.Category
		if cat == "" {
			cat = "general"
		}
		if _, seen := grouped[cat]; !seen {
			categories = append(categories, cat)
		}
		grouped[cat] = append(grouped[cat], d)
	}

	groups := make([]MenuGroup, 0, len(categories))
	for _, cat := range categories {
		routes := grouped[cat]
		sort.SliceStable(routes, func(i, j int) bool {
			return menuRank(routes[i]) < menuRank(routes[j])
		})
		groups = append(groups, MenuGroup{Category: cat, Routes: routes})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		ri, rj := groupRank(groups[i]), groupRank(groups[j])
		if ri != rj {
			return ri < rj
		}
		return groups[i].Category < groups[j].Category
	})
	return groups
}

// menuRank maps a missing order (zero) after every explicit order.
func menuRank(d route.Descriptor) int {
	if d.Metadata.Order == 0 {
		return int(^uint(0) >> 1)
	}
	return d.Metadata.Order
}

func groupRank(g MenuGroup) int {
	best := int(^uint(0) >> 1)
	for _, d := range g.Routes {
		if rank := menuRank(d); rank < best {
			best = rank
		}
	}
	return best
}
