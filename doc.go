// Package auth provides the credential and session primitives of the campus
// backend: bcrypt password hashing, HS256 session tokens, a bun backed
// student store, the registration and login flows and the fiber handlers
// and middleware that expose them.
//
// Registration:
//   - RegisterStudentHandler validates the payload, hashes the password and
//     inserts the student. The unique index on email decides concurrent
//     registrations, exactly one of them succeeds.
//
// Login:
//   - Auther.Login looks the student up by normalized email and verifies the
//     password. Unknown emails and wrong passwords are indistinguishable to
//     callers, both return ErrInvalidCredentials.
//
// Protected routes:
//   - RouteAuthenticator.ProtectedRoute answers 401 when no token is sent and
//     403 when the token is malformed, tampered or expired. Handlers read the
//     student id with SubjectFromRequest.
//
// Activity sinks:
//   - ActivitySink receives register and login events. Sinks run best-effort,
//     failures are logged and never change the outcome of a request.
package auth
