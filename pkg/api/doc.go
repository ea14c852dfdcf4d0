// Package api talks to the remote recipe service.
//
// A RequestBuilder turns an Endpoint into an *http.Request. A Client sends
// it, classifies the status code into the error types of this package and
// decodes or stores the body:
//
//	200-299  success; an empty body is NetworkError{Kind: KindNoData}
//	401-500  ServerMessageError when the body has a "detail", else KindAuth
//	501-599  ServerMessageError when the body has a "detail", else KindBadRequest
//	other    KindFailed
//
// Every error is logged once where it is raised and then returned.
package api
