package types

// PubSubMessage is the payload of a Pub/Sub event via Cloud Event.
type PubSubMessage struct {
	Message struct {
		Data       []byte            `json:"data"`
		Attributes map[string]string `json:"attributes"`
	} `json:"message"`
}

// ImportRequest asks for a program document to be imported.
type ImportRequest struct {
	Document  string `json:"document"`
	Weeks     int    `json:"weeks,omitempty"`
	DryRun    bool   `json:"dry_run,omitempty"`
	ExportFIT bool   `json:"export_fit,omitempty"`
}
