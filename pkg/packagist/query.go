package packagist

// ListQuery filters GetAllPackageNames.
type ListQuery struct {
	Vendor string // organization, e.g. "composer"
	Type   string // package type, e.g. "composer-plugin"
}

// Params converts q, skipping empty fields.
func (q ListQuery) Params() Params {
	var p Params
	p = setString(p, "vendor", q.Vendor)
	p = setString(p, "type", q.Type)
	return p
}

// SearchQuery filters SearchPackages.
type SearchQuery struct {
	Query   string // name filter, sent as q
	Tags    string // e.g. "psr-3"
	Type    string // e.g. "symfony-bundle"
	PerPage int
	Page    int
}

// Params converts q, skipping zero fields.
func (q SearchQuery) Params() Params {
	var p Params
	p = setString(p, "q", q.Query)
	p = setString(p, "tags", q.Tags)
	p = setString(p, "type", q.Type)
	p = setInt(p, "per_page", q.PerPage)
	p = setInt(p, "page", q.Page)
	return p
}

// PopularQuery pages through GetPopularPackages.
type PopularQuery struct {
	PerPage int
	Page    int
}

// Params converts q, skipping zero fields.
func (q PopularQuery) Params() Params {
	var p Params
	p = setInt(p, "per_page", q.PerPage)
	p = setInt(p, "page", q.Page)
	return p
}

func setString(p Params, key, value string) Params {
	if value == "" {
		return p
	}
	return p.Set(key, value)
}

func setInt(p Params, key string, value int) Params {
	if value == 0 {
		return p
	}
	return p.Set(key, value)
}
