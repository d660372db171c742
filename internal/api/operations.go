package api

import "fmt"

// Shape declares the canonical payload type an operation resolves to.
type Shape int

const (
	// ShapeString resolves to a single block of generated text.
	ShapeString Shape = iota
	// ShapeObject resolves to a structured object.
	ShapeObject
	// ShapeList resolves to an ordered sequence.
	ShapeList
)

func (s Shape) String() string {
	switch s {
	case ShapeString:
		return "STRING"
	case ShapeObject:
		return "OBJECT"
	case ShapeList:
		return "LIST"
	default:
		return "UNKNOWN"
	}
}

// Descriptor is the immutable wire contract of one backend capability.
// Descriptors are defined once in the catalog below and never mutated.
type Descriptor struct {
	Name         string
	Method       string
	Route        string // may contain a single {param} placeholder
	Shape        Shape
	RequiresAuth bool

	// RequiredKeys are object keys that must be present for an OBJECT
	// response to normalize successfully.
	RequiredKeys []string

	// EmptySliceKeys are object keys defaulted to an empty list when the
	// backend omits them, so consumers never branch on absence.
	EmptySliceKeys []string

	// Lenient marks OBJECT operations whose field layout the contract does
	// not constrain. A textual body is wrapped as {"message": ...} instead
	// of failing normalization; only the success signal is extracted.
	Lenient bool
}

// Logical operation names. Views and CLI commands refer to operations only
// by these names; routes and methods stay private to the catalog.
const (
	OpLogin           = "login"
	OpRegister        = "register"
	OpGenerate        = "generate"
	OpThreadReply     = "thread-reply"
	OpHistory         = "get-history"
	OpHistoryByIntent = "get-history-by-intent"
	OpAnalytics       = "get-analytics"
	OpScoreQuality    = "score-quality"
	OpDetectRisk      = "detect-risk"
	OpDetectIntent    = "detect-intent"
	OpGenerateSubject = "generate-subject"
	OpSummarize       = "summarize"
	OpFollowUp        = "follow-up"
	OpSendEmail       = "send-email"
	OpDashboard       = "get-dashboard"
	OpSwitchProvider  = "switch-provider"
)

// catalog is the fixed operation table. One entry per backend capability.
var catalog = map[string]Descriptor{
	OpLogin: {
		Name: OpLogin, Method: "POST", Route: "/api/auth/login",
		Shape: ShapeObject, RequiredKeys: []string{"token"},
	},
	OpRegister: {
		Name: OpRegister, Method: "POST", Route: "/api/auth/register",
		Shape: ShapeObject, RequiredKeys: []string{"token"},
	},
	OpGenerate: {
		Name: OpGenerate, Method: "POST", Route: "/api/email/generate",
		Shape: ShapeString, RequiresAuth: true,
	},
	OpThreadReply: {
		Name: OpThreadReply, Method: "POST", Route: "/api/email/thread-reply",
		Shape: ShapeString, RequiresAuth: true,
	},
	OpHistory: {
		Name: OpHistory, Method: "GET", Route: "/api/email/history",
		Shape: ShapeList, RequiresAuth: true,
	},
	OpHistoryByIntent: {
		Name: OpHistoryByIntent, Method: "GET", Route: "/api/email/history/intent/{param}",
		Shape: ShapeList, RequiresAuth: true,
	},
	OpAnalytics: {
		Name: OpAnalytics, Method: "GET", Route: "/api/email/analytics",
		Shape: ShapeObject, RequiresAuth: true,
		RequiredKeys: []string{"totalEmails"},
	},
	OpScoreQuality: {
		Name: OpScoreQuality, Method: "POST", Route: "/api/email/score-quality",
		Shape: ShapeObject, RequiresAuth: true,
		RequiredKeys: []string{"sentiment"},
	},
	OpDetectRisk: {
		Name: OpDetectRisk, Method: "POST", Route: "/api/email/detect-risk",
		Shape: ShapeObject, RequiresAuth: true,
		RequiredKeys: []string{"riskType"},
	},
	OpDetectIntent: {
		Name: OpDetectIntent, Method: "POST", Route: "/api/email/detect-intent",
		Shape: ShapeObject, RequiresAuth: true,
		RequiredKeys: []string{"intent"},
	},
	OpGenerateSubject: {
		Name: OpGenerateSubject, Method: "POST", Route: "/api/email/subject",
		Shape: ShapeList, RequiresAuth: true,
	},
	OpSummarize: {
		Name: OpSummarize, Method: "POST", Route: "/api/email/summarize",
		Shape: ShapeObject, RequiresAuth: true,
		RequiredKeys:   []string{"summary"},
		EmptySliceKeys: []string{"actionItems", "deadlines"},
	},
	OpFollowUp: {
		Name: OpFollowUp, Method: "POST", Route: "/api/email/follow-up",
		Shape: ShapeString, RequiresAuth: true,
	},
	OpSendEmail: {
		Name: OpSendEmail, Method: "POST", Route: "/api/email/send-email",
		Shape: ShapeObject, RequiresAuth: true, Lenient: true,
	},
	OpDashboard: {
		Name: OpDashboard, Method: "GET", Route: "/api/user/dashboard",
		Shape: ShapeObject, RequiresAuth: true,
		RequiredKeys: []string{"username"},
	},
	OpSwitchProvider: {
		Name: OpSwitchProvider, Method: "PUT", Route: "/api/user/ai-provider",
		Shape: ShapeObject, RequiresAuth: true, Lenient: true,
	},
}

// Lookup returns the descriptor for name.
func Lookup(name string) (Descriptor, bool) {
	desc, ok := catalog[name]
	return desc, ok
}

// MustLookup returns the descriptor for name. An unknown name is a
// programming error, not a runtime condition, so it panics.
func MustLookup(name string) Descriptor {
	desc, ok := catalog[name]
	if !ok {
		panic(fmt.Sprintf("api: unknown operation %q", name))
	}
	return desc
}

// Operations returns all catalog entries. Order is unspecified.
func Operations() []Descriptor {
	out := make([]Descriptor, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, d)
	}
	return out
}
