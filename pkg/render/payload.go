package render

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/vango-dev/folio/pkg/router"
)

// PayloadSuffix marks a request for the component stream of a path
// instead of its document. It is also the output file suffix of the
// stream in static builds.
const PayloadSuffix = "_.rsc"

// Content types of the two output forms.
const (
	HTMLContentType    = "text/html;charset=utf-8"
	PayloadContentType = "text/x-component;charset=utf-8"
)

// SplitPayloadPath strips PayloadSuffix from a request path and reports
// whether it was present.
//
//	SplitPayloadPath("/blog/one/_.rsc") → "/blog/one/", true
//	SplitPayloadPath("/blog/one_.rsc")  → "/blog/one", true
//	SplitPayloadPath("/_.rsc")          → "/", true
func SplitPayloadPath(p string) (string, bool) {
	if !strings.HasSuffix(p, PayloadSuffix) {
		return p, false
	}
	p = strings.TrimSuffix(p, PayloadSuffix)
	if p == "" {
		p = "/"
	}
	return p, true
}

// Record types of the component stream.
const (
	RecordRoute    = "route"
	RecordLayout   = "layout"
	RecordPage     = "page"
	RecordNotFound = "not-found"
)

// Record is one line of the component stream. A stream holds a route
// record, one layout record per layout root first, and a page record
// carrying the rendered page.
type Record struct {
	Type   string        `json:"type"`
	Route  string        `json:"route,omitempty"`
	Path   string        `json:"path,omitempty"`
	Params router.Params `json:"params,omitempty"`
	ID     string        `json:"id,omitempty"`
	Depth  int           `json:"depth,omitempty"`
	HTML   string        `json:"html,omitempty"`
}

// readPayload decodes a component stream.
func readPayload(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	var records []Record
	for {
		var rec Record
		err := dec.Decode(&rec)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}
