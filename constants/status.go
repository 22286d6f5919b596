package constants

// FailureReason tags a failed persistence attempt with the step that broke.
type FailureReason string

// Stable values (surfaced verbatim in insert results).
const (
	FailureConnection      FailureReason = "CONNECTION"       // could not acquire a connection / begin
	FailureIssuerUpsert    FailureReason = "ISSUER_UPSERT"    // prestador lookup or insert
	FailureRecipientUpsert FailureReason = "RECIPIENT_UPSERT" // tomador lookup or insert
	FailureDuplicateLookup FailureReason = "DUPLICATE_LOOKUP" // identificador lookup
	FailureHeaderInsert    FailureReason = "HEADER_INSERT"    // nota_fiscal insert
	FailureServiceInsert   FailureReason = "SERVICE_INSERT"   // servico insert
	FailureCommit          FailureReason = "COMMIT"
	FailureInternal        FailureReason = "INTERNAL"
)
