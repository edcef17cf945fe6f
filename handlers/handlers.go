package handlers

type Response struct {
	Error string `json:"error"`
}

type MultiResponse struct {
	Error  string   `json:"error"`
	Failed []string `json:"failed"`
}

type CountResponse struct {
	Error string `json:"error"`
	Count int64  `json:"count"`
}

var (
	// Predefined errors
	OKResponse       = Response{}
	NopeResponse     = Response{"nope"}
	DBError1Response = Response{"DB Error 1"}
	DBError2Response = Response{"DB Error 2"}
	DBError3Response = Response{"DB Error 3"}
	OKMultiResponse  = MultiResponse{"", []string{}}
)
