package puckpedia

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/albapepper/nhl-ingest/internal/config"
	"github.com/albapepper/nhl-ingest/internal/provider"
)

var (
	tableClass   = regexp.MustCompile(`(?i)cap-table|roster-table`)
	yearsPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:yr|year)`)
	headerWords  = []string{"player", "name", "pos"}
	slugStrip    = regexp.MustCompile(`[^a-z0-9-]`)
	dollarAmount = regexp.MustCompile(`\$\s*[\d,.]+\s*[MmKk]?`)
	firstNumber  = regexp.MustCompile(`\d+`)
	capHitLabel  = regexp.MustCompile(`(?i)cap hit`)
	termLabel    = regexp.MustCompile(`(?i)term|years`)
)

// contractTables returns tables whose class names a cap or roster table,
// or every table when none does.
func contractTables(doc *goquery.Document) *goquery.Selection {
	tables := doc.Find("table").FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		return tableClass.MatchString(class)
	})
	if tables.Length() == 0 {
		tables = doc.Find("table")
	}
	return tables
}

func cellText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

// ParseContractRow applies the row heuristic to the td/th cells of one table
// row. It reports false for header rows and rows without a usable name.
//
// The first cell (or the link inside it) names the player. The first cell
// holding a dollar sign is the cap hit and the second the salary, falling
// back to the cap hit. An exact UFA, RFA or 10.2(C) cell sets the expiry
// status, "<n> yr" anywhere sets the length (default 1) and NMC/NTC
// substrings set the clause flags.
func ParseContractRow(cells *goquery.Selection, team string) (provider.Contract, bool) {
	if cells.Length() == 0 {
		return provider.Contract{}, false
	}

	texts := make([]string, cells.Length())
	cells.Each(func(i int, s *goquery.Selection) {
		texts[i] = cellText(s)
	})

	first := strings.ToLower(texts[0])
	for _, word := range headerWords {
		if strings.Contains(first, word) {
			return provider.Contract{}, false
		}
	}

	name := texts[0]
	if link := cells.First().Find("a").First(); link.Length() > 0 {
		name = cellText(link)
	}
	if len([]rune(name)) < 2 {
		return provider.Contract{}, false
	}

	var capHit, salary int64
	var expiry string
	for _, text := range texts[1:] {
		switch upper := strings.ToUpper(text); {
		case strings.Contains(text, "$"):
			value := provider.ParseDollars(text)
			if capHit == 0 {
				capHit = value
			} else if salary == 0 {
				salary = value
			}
		case upper == provider.ExpiryUFA || upper == provider.ExpiryRFA || upper == provider.Expiry102C:
			expiry = upper
		}
	}
	if salary == 0 {
		salary = capHit
	}

	rowText := strings.Join(texts, " ")
	years := 1
	if m := yearsPattern.FindStringSubmatch(rowText); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			years = n
		}
	}
	upperRow := strings.ToUpper(rowText)

	raw, _ := json.Marshal(map[string]interface{}{"cells": texts})
	return provider.Contract{
		PlayerName:   name,
		TeamAbbrev:   team,
		CapHit:       capHit,
		Salary:       salary,
		AAV:          capHit,
		TotalYears:   years,
		ExpiryStatus: expiry,
		HasNMC:       strings.Contains(upperRow, "NMC") || strings.Contains(upperRow, "NO-MOVE"),
		HasNTC:       strings.Contains(upperRow, "NTC") || strings.Contains(upperRow, "NO-TRADE"),
		Source:       config.SourcePuckPedia,
		Raw:          raw,
	}, true
}

// PlayerSlug turns a display name into the site's player URL slug.
func PlayerSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "'", "")
	return slugStrip.ReplaceAllString(slug, "")
}

// ownText returns the text held directly by the element, ignoring children.
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
	}
	return b.String()
}

// labelled finds the first element whose own text matches label.
func labelled(doc *goquery.Document, label *regexp.Regexp) *goquery.Selection {
	return doc.Find("body *").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return label.MatchString(ownText(s))
	}).First()
}

// parsePlayerPage reads a player page's contract summary. It looks for a
// dollar amount near the "cap hit" label, a number near the term label, the
// first UFA/RFA mention and clause keywords anywhere on the page.
func parsePlayerPage(doc *goquery.Document, name string) provider.Contract {
	c := provider.Contract{
		PlayerName: name,
		Source:     config.SourcePuckPedia,
	}

	if label := labelled(doc, capHitLabel); label.Length() > 0 {
		scope := label.Parent().Text() + " " + label.Parent().NextAll().Text()
		if m := dollarAmount.FindString(scope); m != "" {
			c.CapHit = provider.ParseDollars(m)
			c.AAV = c.CapHit
			c.Salary = c.CapHit
		}
	}

	if label := labelled(doc, termLabel); label.Length() > 0 {
		if m := firstNumber.FindString(label.Parent().Text()); m != "" {
			c.TotalYears, _ = strconv.Atoi(m)
		}
	}

	page := doc.Text()
	for _, status := range []string{provider.ExpiryUFA, provider.ExpiryRFA} {
		if strings.Contains(page, status) {
			c.ExpiryStatus = status
			break
		}
	}

	upper := strings.ToUpper(page)
	c.HasNMC = strings.Contains(upper, "NMC") || strings.Contains(upper, "NO-MOVEMENT")
	c.HasNTC = strings.Contains(upper, "NTC") || strings.Contains(upper, "NO-TRADE")
	return c
}
