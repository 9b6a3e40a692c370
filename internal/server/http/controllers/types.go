package controllers

// Common request/response types for HTTP controllers

// initReq represents the one-time engine initialization request.
type initReq struct {
	Token string `json:"token"`
	Admin string `json:"admin"`
}

// streamOpReq represents a lifecycle request addressed to a stream by id.
type streamOpReq struct {
	ID uint64 `json:"id"`
}

// createStreamResp reports the id assigned to a new stream.
type createStreamResp struct {
	ID uint64 `json:"id"`
}

// withdrawResp reports the amount settled by a withdrawal.
type withdrawResp struct {
	ID     uint64 `json:"id"`
	Amount int64  `json:"amount"`
}

// mintReq represents a token mint request.
type mintReq struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// balanceResp reports an account's token balance.
type balanceResp struct {
	Account string `json:"account"`
	Balance int64  `json:"balance"`
}
