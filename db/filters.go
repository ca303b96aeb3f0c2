package db

import "github.com/Masterminds/squirrel"

// Filters are sparse: a nil criterion is omitted, never treated as a
// null-match. All supplied criteria are combined with AND.

// UserFilters narrows GetUsers.
type UserFilters struct {
	UserType   *string // exact
	Location   *string // substring
	SearchTerm *string // substring over username OR full_name
}

func (f *UserFilters) apply(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	if f == nil {
		return b
	}
	if f.UserType != nil {
		b = b.Where(squirrel.Eq{"user_type": *f.UserType})
	}
	if f.Location != nil {
		b = b.Where(squirrel.Like{"location": contains(*f.Location)})
	}
	if f.SearchTerm != nil {
		b = b.Where(textSearch(*f.SearchTerm, "username", "full_name"))
	}
	return b
}

// TenderFilters narrows GetTenders. Profession is pushed down to the store
// as a substring match against the serialized required_professions column
// (cheap, approximate); RequiredProfession is matched against the decoded
// list after the fetch (exact).
type TenderFilters struct {
	Category           *string
	Status             *string
	UserID             *int
	MinBudget          *float64
	MaxBudget          *float64
	SearchTerm         *string // substring over title OR description
	Profession         *string
	RequiredProfession *string
}

func (f *TenderFilters) apply(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	if f == nil {
		return b
	}
	if f.Category != nil {
		b = b.Where(squirrel.Eq{"category": *f.Category})
	}
	if f.Status != nil {
		b = b.Where(squirrel.Eq{"status": *f.Status})
	}
	if f.UserID != nil {
		b = b.Where(squirrel.Eq{"user_id": *f.UserID})
	}
	b = numericRange(b, "budget", f.MinBudget, f.MaxBudget)
	if f.SearchTerm != nil {
		b = b.Where(textSearch(*f.SearchTerm, "title", "description"))
	}
	if f.Profession != nil {
		b = b.Where(squirrel.Like{"required_professions": contains(*f.Profession)})
	}
	return b
}

// ListingFilters narrows GetListings.
type ListingFilters struct {
	Category    *string
	Subcategory *string
	ListingType *string
	UserID      *int
	MinPrice    *float64
	MaxPrice    *float64
	Location    *string // substring
	SearchTerm  *string // substring over title OR description
}

func (f *ListingFilters) apply(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	if f == nil {
		return b
	}
	if f.Category != nil {
		b = b.Where(squirrel.Eq{"category": *f.Category})
	}
	if f.Subcategory != nil {
		b = b.Where(squirrel.Eq{"subcategory": *f.Subcategory})
	}
	if f.ListingType != nil {
		b = b.Where(squirrel.Eq{"listing_type": *f.ListingType})
	}
	if f.UserID != nil {
		b = b.Where(squirrel.Eq{"user_id": *f.UserID})
	}
	b = numericRange(b, "price", f.MinPrice, f.MaxPrice)
	if f.Location != nil {
		b = b.Where(squirrel.Like{"location": contains(*f.Location)})
	}
	if f.SearchTerm != nil {
		b = b.Where(textSearch(*f.SearchTerm, "title", "description"))
	}
	return b
}

// CrewFilters narrows GetCrews.
type CrewFilters struct {
	Specialization *string // substring
	IsVerified     *bool
	IsAvailable    *bool
	SearchTerm     *string // substring over name OR specialization
}

func (f *CrewFilters) apply(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	if f == nil {
		return b
	}
	if f.Specialization != nil {
		b = b.Where(squirrel.Like{"specialization": contains(*f.Specialization)})
	}
	if f.IsVerified != nil {
		b = b.Where(squirrel.Eq{"is_verified": *f.IsVerified})
	}
	if f.IsAvailable != nil {
		b = b.Where(squirrel.Eq{"is_available": *f.IsAvailable})
	}
	if f.SearchTerm != nil {
		b = b.Where(textSearch(*f.SearchTerm, "name", "specialization"))
	}
	return b
}

// DesignProjectFilters narrows GetDesignProjects.
type DesignProjectFilters struct {
	UserID *int
	Status *string
}

func (f *DesignProjectFilters) apply(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	if f == nil {
		return b
	}
	if f.UserID != nil {
		b = b.Where(squirrel.Eq{"user_id": *f.UserID})
	}
	if f.Status != nil {
		b = b.Where(squirrel.Eq{"status": *f.Status})
	}
	return b
}

func contains(v string) string {
	return "%" + v + "%"
}

// textSearch ORs a substring match across the given columns.
func textSearch(term string, cols ...string) squirrel.Or {
	or := make(squirrel.Or, 0, len(cols))
	for _, c := range cols {
		or = append(or, squirrel.Like{c: contains(term)})
	}
	return or
}

// numericRange adds an inclusive BETWEEN when both bounds are present, a
// one-sided comparison when only one is.
func numericRange(b squirrel.SelectBuilder, col string, min, max *float64) squirrel.SelectBuilder {
	switch {
	case min != nil && max != nil:
		b = b.Where(squirrel.Expr(col+" BETWEEN ? AND ?", *min, *max))
	case min != nil:
		b = b.Where(squirrel.GtOrEq{col: *min})
	case max != nil:
		b = b.Where(squirrel.LtOrEq{col: *max})
	}
	return b
}
