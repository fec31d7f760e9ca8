// Package api defines wire-format types, converters, and the service layer
// behind the IPC and HTTP surfaces. It translates internal meeting and
// session models into transport-friendly DTOs and owns the workflows those
// surfaces share: browsing meetings, scheduling bots, editing sessions, and
// removing them.
//
// DTOs use camelCase JSON tags. Internal status enums are exposed as
// lowercase strings; timestamps use RFC3339 with milliseconds. Services
// depend only on small interfaces so tests and transports can supply their
// own implementations.
package api
