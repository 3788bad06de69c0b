// Package upstream is the HTTP client for the Workfront REST API.
//
// Client.Do sends exactly one request per call: no retries, no batching and
// no timeout beyond the caller's context. Every request carries
// Content-Type: application/json and the configured API key in an apiKey
// header. Responses are unwrapped from the {"data": ...} envelope into an
// Envelope holding the raw data member.
//
// Failures come back as *Error with one of three kinds:
//
//   - KindTransport: no response (DNS, connection, timeout, cancellation).
//     Classified transient.
//   - KindStatus: non-2xx status. 5xx and 429 are classified transient,
//     everything else invalid.
//   - KindMalformed: the body could not be unwrapped (a JSON null body).
//     Classified invalid.
//
// The client does not decide what a failure means to a GraphQL caller; the
// resolver layer maps every *Error to its field's default value.
package upstream
