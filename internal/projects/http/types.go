package http

type createReq struct {
	Name             string `json:"name"`
	Zeichnungsnummer string `json:"zeichnungsnummer"`
}

// updateReq distinguishes "not sent" from "sent empty" for the drawing
// number, which the merge semantics depend on.
type updateReq struct {
	Name             string  `json:"name"`
	Zeichnungsnummer *string `json:"zeichnungsnummer"`
}
