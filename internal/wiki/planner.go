package wiki

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dpolishuk/codewiki/backend/internal/llm"
	"github.com/dpolishuk/codewiki/backend/internal/models"
	"github.com/dpolishuk/codewiki/backend/internal/repo"
)

var (
	codeFenceOpenRegex  = regexp.MustCompile("(?im)^```(?:xml)?[ \\t]*")
	codeFenceCloseRegex = regexp.MustCompile("(?im)```[ \\t]*$")
	wikiStructureRegex  = regexp.MustCompile(`(?s)<wiki_structure>.*?</wiki_structure>`)
	controlCharRegex    = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
)

// ValidationError means the backend's response did not contain a usable wiki
// structure. Raw keeps the offending response text for diagnosis.
type ValidationError struct {
	Message string
	Raw     string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Planner asks the generation backend for a wiki structure and parses the
// XML answer into the structure entity.
type Planner struct {
	client *llm.Client
	model  string
}

func NewPlanner(client *llm.Client, model string) *Planner {
	return &Planner{client: client, model: model}
}

// Plan determines the wiki structure for the repository from its file tree
// and README. Malformed optional fields degrade to defaults; only a missing
// or unparsable <wiki_structure> document is fatal.
func (p *Planner) Plan(ctx context.Context, info *models.RepositoryInfo, repoURL string, contents *repo.Contents) (*models.WikiStructure, error) {
	prompt := buildStructurePrompt(info.Owner, info.Repo, contents.FileTree(), contents.Readme)

	response, err := p.client.Ask(ctx, &llm.Request{
		Type:     info.Type,
		Messages: []llm.Message{{Role: "user", Content: prompt}},
		RepoURL:  repoURL,
		Model:    p.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to determine wiki structure: %w", err)
	}

	structure, err := ParseStructureResponse(response)
	if err != nil {
		return nil, err
	}

	slog.Info("wiki structure determined",
		"title", structure.Title,
		"pages", len(structure.Pages),
		"sections", len(structure.Sections),
		"rootSections", len(structure.RootSections))
	return structure, nil
}

type xmlPage struct {
	ID            string   `xml:"id,attr"`
	Title         string   `xml:"title"`
	Description   string   `xml:"description"`
	Importance    string   `xml:"importance"`
	FilePaths     []string `xml:"relevant_files>file_path"`
	RelatedPages  []string `xml:"related_pages>related"`
	ParentSection string   `xml:"parent_section"`
}

type xmlSection struct {
	ID             string   `xml:"id,attr"`
	Title          string   `xml:"title"`
	PageRefs       []string `xml:"pages>page_ref"`
	SubsectionRefs []string `xml:"subsections>section_ref"`
}

type xmlWikiStructure struct {
	XMLName     xml.Name     `xml:"wiki_structure"`
	Title       string       `xml:"title"`
	Description string       `xml:"description"`
	Sections    []xmlSection `xml:"sections>section"`
	Pages       []xmlPage    `xml:"pages>page"`
}

// ParseStructureResponse extracts and validates the <wiki_structure> XML
// document from raw backend response text.
func ParseStructureResponse(response string) (*models.WikiStructure, error) {
	// Strip markdown code fence delimiters the model sometimes adds
	cleaned := codeFenceOpenRegex.ReplaceAllString(response, "")
	cleaned = codeFenceCloseRegex.ReplaceAllString(cleaned, "")

	xmlText := wikiStructureRegex.FindString(cleaned)
	if xmlText == "" {
		return nil, &ValidationError{
			Message: "no valid <wiki_structure> XML found in the response",
			Raw:     response,
		}
	}

	// Control characters are LLM artifacts the XML parser chokes on
	xmlText = controlCharRegex.ReplaceAllString(xmlText, "")

	var parsed xmlWikiStructure
	if err := xml.Unmarshal([]byte(xmlText), &parsed); err != nil {
		return nil, &ValidationError{
			Message: fmt.Sprintf("invalid XML structure returned: %v", err),
			Raw:     response,
		}
	}

	pages := make([]models.WikiPage, 0, len(parsed.Pages))
	for i, page := range parsed.Pages {
		id := page.ID
		if id == "" {
			id = fmt.Sprintf("page-%d", i+1)
		}

		importance := strings.ToLower(strings.TrimSpace(page.Importance))
		if importance != models.ImportanceHigh && importance != models.ImportanceLow {
			importance = models.ImportanceMedium
		}

		pages = append(pages, models.WikiPage{
			ID:            id,
			Title:         strings.TrimSpace(page.Title),
			Description:   strings.TrimSpace(page.Description),
			FilePaths:     trimAll(page.FilePaths),
			Importance:    importance,
			RelatedPages:  trimAll(page.RelatedPages),
			ParentSection: strings.TrimSpace(page.ParentSection),
		})
	}

	sections := make([]models.WikiSection, 0, len(parsed.Sections))
	allSectionIDs := make(map[string]bool)
	referencedIDs := make(map[string]bool)

	for _, section := range parsed.Sections {
		if section.ID != "" {
			allSectionIDs[section.ID] = true
		}
	}

	for i, section := range parsed.Sections {
		id := section.ID
		if id == "" {
			id = fmt.Sprintf("section-%d", i+1)
		}

		subsections := trimAll(section.SubsectionRefs)
		for _, sub := range subsections {
			referencedIDs[sub] = true
		}

		sections = append(sections, models.WikiSection{
			ID:          id,
			Title:       strings.TrimSpace(section.Title),
			Pages:       trimAll(section.PageRefs),
			Subsections: subsections,
		})
	}

	// Roots are the sections nobody references as a subsection
	var rootSections []string
	for _, section := range parsed.Sections {
		if section.ID != "" && allSectionIDs[section.ID] && !referencedIDs[section.ID] {
			rootSections = append(rootSections, section.ID)
		}
	}

	return &models.WikiStructure{
		ID:           "wiki",
		Title:        parsed.Title,
		Description:  parsed.Description,
		Pages:        pages,
		Sections:     sections,
		RootSections: rootSections,
	}, nil
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
