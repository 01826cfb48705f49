package http

const (
	routeStats     = "/v1/stats"
	routePending   = "/v1/pending"
	routeProofByID = "/v1/proofs/{id}"
	routeHealth    = "/health"
)

const (
	routeNameStats     = "agent_stats"
	routeNamePending   = "agent_pending"
	routeNameProofByID = "agent_proof_by_id"
	routeNameHealth    = "agent_health"
)
