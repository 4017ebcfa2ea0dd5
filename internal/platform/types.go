// Package platform implements the document-management resources of the
// vendor API: organizations, file cabinets, and documents. It translates
// the API's two response shapes (tabular batch listings and per-document
// field lists) into one DocumentRecord form so that callers never depend
// on which endpoint supplied the data.
package platform

import (
	"fmt"
	"strconv"
)

// Organization identifies one tenant on the platform
type Organization struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// Cabinet identifies one document repository. Immutable once fetched.
type Cabinet struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// DocumentRecord is the uniform document shape produced by both response
// translators. Records are built fresh on every fetch and never cached.
type DocumentRecord struct {
	ID        string            `json:"id"`
	CabinetID string            `json:"cabinetId"`
	Row       map[string]string `json:"row"`
}

// Condition is one term of a server-side query; terms are OR-combined
type Condition struct {
	DBName string   `json:"DBName"`
	Value  []string `json:"Value"`
}

// Wire shapes

type organizationsResult struct {
	Organization []Organization `json:"Organization"`
}

type cabinetsResult struct {
	FileCabinet []Cabinet `json:"FileCabinet"`
}

// documentsResult is the tabular batch listing: a header row naming the
// fields in array order, and item rows zipped against it.
type documentsResult struct {
	Count struct {
		Value int `json:"Value"`
	} `json:"Count"`
	Headers []string `json:"Headers"`
	Rows    []struct {
		Items []interface{} `json:"Items"`
	} `json:"Rows"`
}

// documentResult is the per-document field list
type documentResult struct {
	Fields []documentField `json:"Fields"`
}

type documentField struct {
	FieldName string      `json:"FieldName"`
	Item      interface{} `json:"Item"`
}

type fieldsUpdate struct {
	Field []documentField `json:"Field"`
}

type expressionQuery struct {
	Condition []Condition `json:"Condition"`
	Operation string      `json:"Operation"`
	Count     int         `json:"Count"`
	Start     int         `json:"Start"`
}

// itemString renders a field value the way the console and filters expect:
// numbers without a float suffix, nulls as empty strings.
func itemString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
