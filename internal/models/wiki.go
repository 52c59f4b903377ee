package models

// Importance levels for a wiki page
const (
	ImportanceHigh   = "high"
	ImportanceMedium = "medium"
	ImportanceLow    = "low"
)

// WikiPage represents one documentation unit of the wiki. Content stays empty
// until the page generator fills it in.
type WikiPage struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Content       string   `json:"content"`
	FilePaths     []string `json:"filePaths"`
	Importance    string   `json:"importance"` // high, medium, low
	RelatedPages  []string `json:"relatedPages"`
	ParentSection string   `json:"parentSection,omitempty"`
}

// WikiSection groups pages and optionally nests other sections
type WikiSection struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Pages       []string `json:"pages"`
	Subsections []string `json:"subsections,omitempty"`
}

// WikiStructure is the hierarchical plan for the wiki, produced once per
// generation run. Page content is filled in afterwards without altering the
// shape. RootSections holds the section ids that are not referenced as a
// subsection of any other section.
type WikiStructure struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Pages        []WikiPage    `json:"pages"`
	Sections     []WikiSection `json:"sections"`
	RootSections []string      `json:"rootSections"`
}

// Clone returns a deep copy detached from the receiver's backing arrays, so
// the copy can be published to readers while the originals are still being
// mutated.
func (s *WikiStructure) Clone() WikiStructure {
	out := *s
	out.Pages = append([]WikiPage(nil), s.Pages...)
	for i := range out.Pages {
		out.Pages[i].FilePaths = append([]string(nil), out.Pages[i].FilePaths...)
		out.Pages[i].RelatedPages = append([]string(nil), out.Pages[i].RelatedPages...)
	}
	out.Sections = append([]WikiSection(nil), s.Sections...)
	for i := range out.Sections {
		out.Sections[i].Pages = append([]string(nil), out.Sections[i].Pages...)
		out.Sections[i].Subsections = append([]string(nil), out.Sections[i].Subsections...)
	}
	out.RootSections = append([]string(nil), s.RootSections...)
	return out
}

// WikiCacheData is the payload half of a cache record: the structure plus
// every generated page keyed by page id.
type WikiCacheData struct {
	WikiStructure  WikiStructure       `json:"wiki_structure"`
	GeneratedPages map[string]WikiPage `json:"generated_pages"`
}

// WikiCacheRecord is the durable cache entry, keyed by (owner, repo, repo type)
type WikiCacheRecord struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	RepoType string `json:"repo_type"`
	WikiCacheData
}
