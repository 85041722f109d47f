package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/igusev/cfl/internal/jsonc"
	"github.com/igusev/cfl/internal/model"
	"github.com/tidwall/gjson"
)

var (
	// ErrTransport is returned when the document could not be fetched
	ErrTransport = errors.New("failed to fetch company list")
	// ErrEmptyDocument is returned for an empty or whitespace-only document
	ErrEmptyDocument = errors.New("company list is empty")
	// ErrMalformedDocument is returned when the document is not valid JSONC or has no data array
	ErrMalformedDocument = errors.New("company list is malformed")
)

// InvalidRecordError describes a record kept with zero defaults
// because required fields were missing
type InvalidRecordError struct {
	Index   int
	Code    string
	Missing []string
}

func (e InvalidRecordError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("record %d (%s): missing %s", e.Index, e.Code, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("record %d: missing %s", e.Index, strings.Join(e.Missing, ", "))
}

// document is the top-level shape; records stay raw for field-presence checks
type document struct {
	UpdateTime string            `json:"updateTime"`
	Data       []json.RawMessage `json:"data"`
}

// Parse decodes a JSONC company list.
// Invalid records are reported but never abort the parse.
func Parse(text string) (model.CompanyList, []InvalidRecordError, error) {
	var doc document
	if err := jsonc.Unmarshal(text, &doc); err != nil {
		if errors.Is(err, jsonc.ErrEmptyInput) {
			return model.CompanyList{}, nil, ErrEmptyDocument
		}
		return model.CompanyList{}, nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if doc.Data == nil {
		return model.CompanyList{}, nil, fmt.Errorf("%w: missing data array", ErrMalformedDocument)
	}

	list := model.CompanyList{
		UpdateTime: doc.UpdateTime,
		Companies:  make([]model.Company, 0, len(doc.Data)),
	}
	var invalid []InvalidRecordError

	for i, raw := range doc.Data {
		company, missing := parseRecord(raw)
		if len(missing) > 0 {
			invalid = append(invalid, InvalidRecordError{Index: i, Code: company.Code, Missing: missing})
		}
		list.Companies = append(list.Companies, company)
	}

	return list, invalid, nil
}

// parseRecord extracts one company and lists the required fields it lacks
func parseRecord(raw json.RawMessage) (model.Company, []string) {
	record := gjson.ParseBytes(raw)
	if !record.IsObject() {
		return model.Company{}, []string{"code", "name"}
	}

	code := record.Get("code")
	name := record.Get("name")

	var missing []string
	if !code.Exists() || code.Type == gjson.Null {
		missing = append(missing, "code")
	}
	if !name.Exists() || name.Type == gjson.Null {
		missing = append(missing, "name")
	}

	return model.Company{
		Code:             code.String(),
		Name:             name.String(),
		Furigana:         record.Get("furigana").String(),
		DecisionMonth:    int(record.Get("decisionMonth").Int()),
		RegistrationDate: record.Get("registrationDate").String(),
	}, missing
}
