package api

// Backend enumerations. These are sent as plain strings; the backend
// validates membership, the client only offers the known values.

// Tones the backend can generate in.
var Tones = []string{"FORMAL", "FRIENDLY", "APOLOGY", "FOLLOW_UP", "HR", "SALES", "SUPPORT"}

// Modes are the transformations a generation call can request.
var Modes = []string{"GENERATE_REPLY", "POLISH", "SHORTEN", "EXPAND", "MAKE_FORMAL"}

// PromptVersions name the instruction-template variants.
var PromptVersions = []string{"V1_SIMPLE", "V2_STRUCTURED", "V3_ENTERPRISE"}

// Providers are the selectable AI backends.
var Providers = []string{"GEMINI", "OLLAMA"}

// Intents are the purpose classifications the backend assigns to emails.
var Intents = []string{
	"COMPLAINT", "JOB_APPLICATION", "INTERVIEW_REPLY", "FOLLOW_UP",
	"SALES_INQUIRY", "SUPPORT_REQUEST", "GREETING", "OTHER",
}

// Request bodies.

// LoginRequest authenticates an existing user.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GenerateRequest drives the generate operation. Provider and Mode are the
// advanced options; the backend also accepts the legacy body without them.
type GenerateRequest struct {
	EmailContent  string `json:"emailContent"`
	Tone          string `json:"tone"`
	PromptVersion string `json:"promptVersion"`
	Provider      string `json:"provider,omitempty"`
	Mode          string `json:"mode,omitempty"`
}

// ThreadReplyRequest asks for a reply aware of earlier messages.
type ThreadReplyRequest struct {
	PreviousEmails []string `json:"previousEmails"`
	EmailContent   string   `json:"emailContent"`
	Tone           string   `json:"tone,omitempty"`
}

// ContentRequest is the single-field body shared by the analysis endpoints
// (summarize, detect-intent, score-quality, detect-risk, subject).
type ContentRequest struct {
	EmailContent string `json:"emailContent"`
}

// FollowUpRequest asks for a follow-up after the given number of days.
type FollowUpRequest struct {
	EmailContent string `json:"emailContent"`
	Days         int    `json:"days,omitempty"`
}

// SendEmailRequest delivers a finished email.
type SendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ProviderRequest switches the user's preferred AI provider.
type ProviderRequest struct {
	Provider string `json:"provider"`
}

// Typed response objects decoded from normalized OBJECT/LIST payloads.

// AuthResponse is the login/register result. Only Token is relied upon;
// the remaining fields are best-effort.
type AuthResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
	User    struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"user"`
}

// HistoryItem is one recorded generation.
type HistoryItem struct {
	ID                int64  `json:"id"`
	EmailContent      string `json:"emailContent"`
	GeneratedResponse string `json:"generatedResponse"`
	Tone              string `json:"tone"`
	Intent            string `json:"intent"`
	Timestamp         string `json:"timestamp"`
}

// Summary is the summarize result. ActionItems and Deadlines are never nil
// after normalization.
type Summary struct {
	Summary     string   `json:"summary"`
	ActionItems []string `json:"actionItems"`
	Deadlines   []string `json:"deadlines"`
}

// Quality is the score-quality result. Scores are on a 0-10 scale.
type Quality struct {
	PolitenessScore      float64 `json:"politenessScore"`
	ProfessionalismScore float64 `json:"professionalismScore"`
	Sentiment            string  `json:"sentiment"`
}

// Risk is the detect-risk result. RiskScore is on a 0-10 scale.
type Risk struct {
	HasRisk        bool    `json:"hasRisk"`
	RiskType       string  `json:"riskType"`
	RiskScore      float64 `json:"riskScore"`
	Recommendation string  `json:"recommendation"`
}

// IntentResult is the detect-intent classification.
type IntentResult struct {
	Intent string `json:"intent"`
	Reason string `json:"reason"`
}

// Acknowledgement is the loosely-shaped result of write operations whose
// exact field layout the contract does not constrain (send-email,
// switch-provider). Only the success signal matters; Message is whatever
// human-readable confirmation the server included.
type Acknowledgement struct {
	Message string `json:"message"`
}
