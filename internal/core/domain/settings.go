package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI text service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// DocumentBackend identifies where the meeting notes document lives.
type DocumentBackend string

// Available document backends.
const (
	DocumentBackendGoogleDocs DocumentBackend = "googledocs"
	DocumentBackendNotion     DocumentBackend = "notion"
	DocumentBackendMarkdown   DocumentBackend = "markdown"
)

// IsValid returns true if the backend is recognised.
func (b DocumentBackend) IsValid() bool {
	switch b {
	case DocumentBackendGoogleDocs, DocumentBackendNotion, DocumentBackendMarkdown:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b DocumentBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b DocumentBackend) Description() string {
	switch b {
	case DocumentBackendGoogleDocs:
		return "Google Docs"
	case DocumentBackendNotion:
		return "Notion page"
	case DocumentBackendMarkdown:
		return "Markdown file"
	default:
		return unknownDescription
	}
}

// TrackerProvider identifies the issue tracker.
type TrackerProvider string

// Available trackers.
const (
	TrackerProviderLinear TrackerProvider = "linear"
	TrackerProviderGitHub TrackerProvider = "github"
)

// IsValid returns true if the tracker is recognised.
func (p TrackerProvider) IsValid() bool {
	return p == TrackerProviderLinear || p == TrackerProviderGitHub
}

// String returns the string representation.
func (p TrackerProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the tracker.
func (p TrackerProvider) Description() string {
	switch p {
	case TrackerProviderLinear:
		return "Linear"
	case TrackerProviderGitHub:
		return "GitHub Issues"
	default:
		return unknownDescription
	}
}

// LLMSettings holds AI text service configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// DocumentSettings locates the document and its anchor.
type DocumentSettings struct {
	Backend DocumentBackend

	// ID is the Google Docs document id, the Notion page id or the Markdown file path.
	ID string

	// AnchorID is the bookmark or heading id of the generated section.
	AnchorID string

	// HeadingPhrase starts collection when pushing.
	HeadingPhrase string

	// CredentialsFile is a Google service account or authorized user JSON file.
	CredentialsFile string

	// NotionAPIKey is the Notion integration token.
	NotionAPIKey string
}

// IsConfigured returns true if a document and anchor are set.
func (d DocumentSettings) IsConfigured() bool {
	return d.Backend.IsValid() && d.ID != "" && d.AnchorID != ""
}

// TrackerSettings holds issue tracker configuration.
type TrackerSettings struct {
	Provider TrackerProvider

	APIKey    string
	TeamID    string
	ProjectID string

	// Label is the well-known label attached to every created issue.
	Label      string
	LabelColor string

	// Owner, Repo and IDPrefix configure the GitHub tracker.
	Owner    string
	Repo     string
	IDPrefix string
}

// IsConfigured returns true if the tracker has the fields its provider needs.
func (t TrackerSettings) IsConfigured() bool {
	switch t.Provider {
	case TrackerProviderLinear:
		return t.APIKey != "" && t.TeamID != ""
	case TrackerProviderGitHub:
		return t.APIKey != "" && t.Owner != "" && t.Repo != ""
	default:
		return false
	}
}

// ExtractionSettings tunes the extraction call.
type ExtractionSettings struct {
	// LookbackDays is the size of the recency window.
	LookbackDays int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds the AI text service settings.
	LLM LLMSettings

	// Document locates the meeting notes.
	Document DocumentSettings

	// Tracker holds issue tracker settings.
	Tracker TrackerSettings

	// Extraction tunes the extraction call.
	Extraction ExtractionSettings
}

// Defaults applied when a setting is missing.
const (
	DefaultHeadingPhrase = "Action Items"
	DefaultLabel         = "meeting-action-item"
	DefaultLabelColor    = "#5E6AD2"
	DefaultIDPrefix      = "GH"
	DefaultLookbackDays  = 28
)

// DefaultAppSettings returns settings with sensible defaults.
// Credentials and ids are left empty and must be configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultLLMModels()[AIProviderOpenAI],
		},
		Document: DocumentSettings{
			Backend:       DocumentBackendGoogleDocs,
			HeadingPhrase: DefaultHeadingPhrase,
		},
		Tracker: TrackerSettings{
			Provider:   TrackerProviderLinear,
			Label:      DefaultLabel,
			LabelColor: DefaultLabelColor,
			IDPrefix:   DefaultIDPrefix,
		},
		Extraction: ExtractionSettings{
			LookbackDays: DefaultLookbackDays,
		},
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
		AIProviderOllama,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-1.5-flash",
	}
}
