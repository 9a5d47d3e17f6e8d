package index

type wireIndex struct {
	Version    int                       `json:"version"`
	Documents  map[string]wireDocument   `json:"documents"`
	Tags       map[string][]string       `json:"tags"`
	Categories map[string][]string       `json:"categories"`
	Domains    map[string][]string       `json:"domains"`
	Skills     map[string][]string       `json:"skills"`
	Terms      map[string]map[string]int `json:"terms"`
}

type wireDocument struct {
	Title      string            `json:"title"`
	Domain     string            `json:"domain,omitempty"`
	Skill      string            `json:"skill,omitempty"`
	Category   string            `json:"category,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Body       string            `json:"body"`
	SourcePath string            `json:"source_path"`
	Ordinal    int               `json:"ordinal"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Excerpt    string            `json:"excerpt"`
	Length     int               `json:"length"`
}

// remove drops an id from every table before it is re-added.
func (w *wireIndex) remove(id string) {
	delete(w.Documents, id)
	for _, table := range []map[string][]string{w.Tags, w.Categories, w.Domains, w.Skills} {
		for k, ids := range table {
			ids = deleteID(ids, id)
			if len(ids) == 0 {
				delete(table, k)
			} else {
				table[k] = ids
			}
		}
	}
	for tok, postings := range w.Terms {
		delete(postings, id)
		if len(postings) == 0 {
			delete(w.Terms, tok)
		}
	}
}

func deleteID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
