package authorization

/*
	The requester identity as resolved by the authentication gateway.
	Token issuance and verification happen upstream; by the time a
	request reaches the beacon core these claims are final.
*/
type RequesterIdentity struct {
	// a credential was presented and verified upstream
	Authenticated bool

	// verified bona-fide researcher status (grants the REGISTERED tier)
	BonaFideStatus bool

	// stable ids of CONTROLLED datasets the requester is entitled to
	Permissions []string
}

func Anonymous() RequesterIdentity {
	return RequesterIdentity{}
}
