/*
Package tutorsdk provides a client SDK for the tutorship programme REST API.

# Overview

Every call goes through one request pipeline, Client.Do, which:

 1. Resolves the path template ("users/{id}") against the request's path parameters
 2. Encodes the body as JSON (default) or as multipart form data (EncodingFile)
 3. Attaches "Authorization: Bearer <refresh token>" to JSON requests when the
    client's CredentialSource has a persisted refresh token
 4. Appends the query string, sends the request and decodes the JSON response

The typed helpers (Login, ListProgramSchemes, AdminDeleteCourse, ...) are thin
wrappers that fill in a Request and call Do.

	client := tutorsdk.NewClient("https://api.example.edu")
	client.Credentials = sessionStore // anything implementing CredentialSource

	schemes, err := client.ListProgramSchemes(ctx)

# Bearer credential

The backend this SDK talks to expects the refresh token, not the access token,
as the bearer credential on ordinary requests and on resource downloads. The
access token returned by Login and Refresh is only decoded for its expiry.

# Multipart bodies

With EncodingFile, body fields are written as multipart parts:

  - strings, numbers and booleans become plain form fields
  - *File values become file parts
  - slices fan out into one part per element (files stay files)
  - maps and structs become a part named after the field, typed
    application/json, holding the JSON encoding of the value

The Content-Type header, including the boundary, is taken from the multipart
writer. The pipeline does not add an Authorization header to multipart
requests.

# Errors

Do returns one of:

  - *TransportError: the HTTP round trip itself failed
  - *RequestError: the server answered with a non-2xx status; Message holds the
    first non-empty "message", "error" or "detail" string of a JSON body, or the
    status text when the body is not JSON
  - *ParseError: a 2xx body could not be decoded
  - ErrMissingPathParam / ErrMalformedPath: the path template could not be resolved

# Response validation

When Client.Validator is set, decoded responses are validated after decoding.
Validation failures are logged as warnings and the decoded value is still
returned; they never fail the call.
*/
package tutorsdk
