package pipeline

import "funding-digest/internal/domain/entity"

// SearchLink returns the company search URL for name.
// It is pure: the same name always yields the same URL and nothing is fetched.
func SearchLink(name string) string {
	return entity.CompanySearchLink(name)
}
