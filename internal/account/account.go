// backend-go/internal/account/account.go
package account

import (
	"sort"
	"strings"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

// Query selects the account dashboard scope. Country and Client default to
// "All"; non-admin users are pinned to their own company rows.
type Query struct {
	User      string
	AdminView bool
	Country   string
	Client    string
	Search    string
}

// scoped narrows the sheet to the visible company rows. Company names match
// case-insensitively against the signed-in user.
func scoped(rows []domain.AccountRecord, q Query) []domain.AccountRecord {
	if q.AdminView {
		return rows
	}
	out := make([]domain.AccountRecord, 0, len(rows))
	for _, r := range rows {
		if strings.EqualFold(r.Company, q.User) {
			out = append(out, r)
		}
	}
	return out
}

// Filtered applies country, client and free-text filters. Country and client
// match exactly as spelled; the search is a case-insensitive substring over
// order number, company and country.
func Filtered(rows []domain.AccountRecord, q Query) []domain.AccountRecord {
	out := scoped(rows, q)

	if q.Country != "" && q.Country != "All" {
		kept := out[:0:0]
		for _, r := range out {
			if r.Country == q.Country {
				kept = append(kept, r)
			}
		}
		out = kept
	}

	if q.Client != "" && q.Client != "All" {
		kept := out[:0:0]
		for _, r := range out {
			if r.Company == q.Client {
				kept = append(kept, r)
			}
		}
		out = kept
	}

	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		kept := out[:0:0]
		for _, r := range out {
			if strings.Contains(strings.ToLower(r.OrderNo), s) ||
				strings.Contains(strings.ToLower(r.Company), s) ||
				strings.Contains(strings.ToLower(r.Country), s) {
				kept = append(kept, r)
			}
		}
		out = kept
	}

	return out
}

// Summarize computes the account dashboard payload: the filtered rows plus
// their settlement totals.
func Summarize(rows []domain.AccountRecord, q Query) domain.AccountSummary {
	filtered := Filtered(rows, q)

	var sum domain.AccountSummary
	for _, r := range filtered {
		sum.TotalValue += r.TotalOrderValue
		sum.TotalReceived += r.PaymentReceived
		sum.TotalBalance += r.BalancePayment
	}
	sum.Rows = filtered
	return sum
}

// Countries lists the distinct countries in the user's scope, sorted, with
// "All" first.
func Countries(rows []domain.AccountRecord, q Query) []string {
	return distinct(scoped(rows, q), func(r domain.AccountRecord) string { return r.Country })
}

// Clients lists the distinct companies in the user's scope, narrowed by the
// country selection, sorted, with "All" first.
func Clients(rows []domain.AccountRecord, q Query) []string {
	base := scoped(rows, q)
	if q.Country != "" && q.Country != "All" {
		kept := base[:0:0]
		for _, r := range base {
			if r.Country == q.Country {
				kept = append(kept, r)
			}
		}
		base = kept
	}
	return distinct(base, func(r domain.AccountRecord) string { return r.Company })
}

func distinct(rows []domain.AccountRecord, key func(domain.AccountRecord) string) []string {
	seen := make(map[string]bool)
	var vals []string
	for _, r := range rows {
		v := key(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return append([]string{"All"}, vals...)
}
