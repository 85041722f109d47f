// Package model defines core data structures for the company list
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// Company represents a single listed company
type Company struct {
	Code             string `json:"code"`             // Securities code (e.g., "138A"), case-insensitive
	Name             string `json:"name"`             // Display name, may carry 株式会社
	Furigana         string `json:"furigana"`         // Phonetic reading (e.g., "ソラコム")
	DecisionMonth    int    `json:"decisionMonth"`    // Fiscal year-end month (1-12)
	RegistrationDate string `json:"registrationDate"` // Free-text date annotation
}

// DisplayString returns formatted display string in style: [code] name (furigana)
// The furigana part is omitted when empty or identical to the name
func (c Company) DisplayString() string {
	if c.Furigana == "" || c.Furigana == c.Name {
		return "[" + c.Code + "] " + c.Name
	}
	return "[" + c.Code + "] " + c.Name + " (" + c.Furigana + ")"
}

// FiscalMonthLabel returns the fiscal year-end month as "3月", or empty if out of range
func (c Company) FiscalMonthLabel() string {
	if c.DecisionMonth < 1 || c.DecisionMonth > 12 {
		return ""
	}
	return strconv.Itoa(c.DecisionMonth) + "月"
}

// CompanyList is the result of loading one document
type CompanyList struct {
	UpdateTime string    // Opaque display string from the document
	Companies  []Company // Records in document order
}

// Len returns the number of companies in the list
func (l CompanyList) Len() int {
	return len(l.Companies)
}

// Empty reports whether the list has no companies
func (l CompanyList) Empty() bool {
	return len(l.Companies) == 0
}

// Fingerprint returns a content hash of the list.
// Two lists of equal length but different content never share a fingerprint.
func (l CompanyList) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00", l.UpdateTime, len(l.Companies))
	for _, c := range l.Companies {
		fmt.Fprintf(h, "%s\x1f%s\x1f%s\x1e", c.Code, c.Name, c.Furigana)
	}
	return hex.EncodeToString(h.Sum(nil))
}
