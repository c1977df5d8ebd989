package catalog

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/maruel/natural"
)

// OrderBy defines the order messages are written in.
type OrderBy string

const (
	OrderByMessageID OrderBy = "messageId"
	OrderByMessage   OrderBy = "message"
	OrderByOrigin    OrderBy = "origin"
)

func ParseOrderBy(s string) (OrderBy, error) {
	switch o := OrderBy(s); o {
	case OrderByMessageID, OrderByMessage, OrderByOrigin:
		return o, nil
	case "":
		return OrderByMessageID, nil
	}
	return "", fmt.Errorf("unknown order %q", s)
}

// Sort reorders c stably.
// Message IDs and texts compare in natural order ("item2" < "item10").
// Messages without origins go last when ordering by origin.
func (c *Catalog) Sort(by OrderBy) {
	if c == nil {
		return
	}
	var cmpFn func(a, b string) int
	switch by {
	case OrderByMessage:
		cmpFn = func(a, b string) int {
			return cmp.Or(
				naturalCompare(c.msgs[a].Source(a), c.msgs[b].Source(b)),
				naturalCompare(a, b),
			)
		}
	case OrderByOrigin:
		cmpFn = func(a, b string) int {
			oa, ob := c.msgs[a].Origins, c.msgs[b].Origins
			switch {
			case len(oa) == 0 && len(ob) == 0:
				return naturalCompare(a, b)
			case len(oa) == 0:
				return 1
			case len(ob) == 0:
				return -1
			}
			return cmp.Or(
				cmp.Compare(oa[0].File, ob[0].File),
				cmp.Compare(oa[0].Line, ob[0].Line),
				naturalCompare(a, b),
			)
		}
	default:
		cmpFn = naturalCompare
	}
	slices.SortStableFunc(c.ids, cmpFn)
}

func naturalCompare(a, b string) int {
	switch {
	case a == b:
		return 0
	case natural.Less(a, b):
		return -1
	}
	return 1
}
