package a2a

// ============================================================================
// AGENT CARD - Agent Discovery & Capability Advertisement
// Spec Section 5.5: AgentCard Object Structure
// ============================================================================

// WellKnownCardPath is where agents publish their card (Section 5.3).
const WellKnownCardPath = "/.well-known/agent-card.json"

// AgentCard represents an A2A agent's capabilities and metadata.
type AgentCard struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Version     string `json:"version"`
	Description string `json:"description"`

	Provider *AgentProvider `json:"provider,omitempty"`

	PreferredTransport   string           `json:"preferredTransport,omitempty"` // "http+json", "json-rpc", "grpc"
	AdditionalInterfaces []AgentInterface `json:"additionalInterfaces,omitempty"`

	Capabilities AgentCapabilities `json:"capabilities"`

	Skills []AgentSkill `json:"skills,omitempty"`

	SecuritySchemes []SecurityScheme `json:"securitySchemes,omitempty"`
}

// AgentProvider describes the provider of an agent (Section 5.5.1).
type AgentProvider struct {
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
	URL          string `json:"url,omitempty"`
}

// AgentInterface defines an additional transport interface (Section 5.5.5).
type AgentInterface struct {
	Transport string `json:"transport"`
	URL       string `json:"url"`
}

// AgentCapabilities describes what an agent can do (Section 5.5.2).
type AgentCapabilities struct {
	Streaming         bool `json:"streaming"`
	PushNotifications bool `json:"pushNotifications"`
}

// AgentSkill describes a specific skill the agent possesses (Section 5.5.4).
type AgentSkill struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// SecurityScheme describes authentication requirements (Section 5.5.3).
type SecurityScheme struct {
	Type   string `json:"type"`           // "bearer", "apiKey", "challenge"
	Scheme string `json:"scheme"`         // "Bearer", "Agentic", etc.
	In     string `json:"in,omitempty"`   // "header", "query"
	Name   string `json:"name,omitempty"` // Header/query param name
}
