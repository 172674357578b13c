package domain

import (
	"fmt"
	"strings"
)

// Contact is an address book entry.
type Contact struct {
	ID             string         `json:"id"`
	DisplayName    string         `json:"displayName,omitempty"`
	EmailAddresses []EmailAddress `json:"emailAddresses,omitempty"`
	BusinessPhones []string       `json:"businessPhones,omitempty"`
	MobilePhone    string         `json:"mobilePhone,omitempty"`
	CompanyName    string         `json:"companyName,omitempty"`
	JobTitle       string         `json:"jobTitle,omitempty"`
}

// PrimaryEmail returns the first email address, or empty.
func (c *Contact) PrimaryEmail() string {
	if len(c.EmailAddresses) == 0 {
		return ""
	}
	return c.EmailAddresses[0].Address
}

// Person is the unified name/email shape produced from contacts and
// shared-calendar owners alike. Source records which of the two a
// person came from.
type Person struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Source string `json:"source,omitempty"`
}

// Person sources.
const (
	PersonSourceContact  = "contact"
	PersonSourceCalendar = "calendar"
)

// DedupePeople merges people case-insensitively by email, keeping the
// first occurrence and its name. People without an email are kept as-is.
func DedupePeople(people []Person) []Person {
	seen := make(map[string]bool, len(people))
	out := make([]Person, 0, len(people))
	for _, p := range people {
		if p.Email == "" {
			out = append(out, p)
			continue
		}
		key := strings.ToLower(p.Email)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// FilterPeople returns every person matching a query. A query shaped
// like an email address matches only that exact address; any other
// query matches names and addresses by case-insensitive substring.
func FilterPeople(people []Person, query string) []Person {
	needle := strings.ToLower(query)

	if strings.Contains(needle, "@") && strings.Contains(needle, ".") {
		var out []Person
		for _, p := range people {
			if strings.ToLower(p.Email) == needle {
				out = append(out, p)
			}
		}
		return out
	}

	var out []Person
	for _, p := range people {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Email), needle) {
			out = append(out, p)
		}
	}
	return out
}

// MatchPeople resolves a query against a people list. An exact
// case-insensitive email match wins immediately. Otherwise substring
// matching runs over names and emails; one hit resolves, several report
// ErrAmbiguousRecipient naming the candidates, none reports ErrNotFound.
func MatchPeople(people []Person, query string) (*Person, error) {
	needle := strings.ToLower(query)

	for i := range people {
		if strings.ToLower(people[i].Email) == needle {
			return &people[i], nil
		}
	}

	var matches []*Person
	for i := range people {
		if strings.Contains(strings.ToLower(people[i].Name), needle) ||
			strings.Contains(strings.ToLower(people[i].Email), needle) {
			matches = append(matches, &people[i])
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("%w: no match for %q", ErrNotFound, query)
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = fmt.Sprintf("%s <%s>", m.Name, m.Email)
		}
		return nil, fmt.Errorf("%w: %q matches %s", ErrAmbiguousRecipient, query, strings.Join(names, ", "))
	}
}
