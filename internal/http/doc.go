// Package http provides HTTP handlers and middleware for the course scheduling API.
//
// The router exposes the following endpoints:
//   - GET /schedules, POST /schedules, DELETE /schedules: schedule booking
//     endpoints exchanging the `scheduleDTO` payload defined in
//     schedule_handler.go. Listings include advisory overlap warnings; the bulk
//     DELETE accepts {"ids": [...]} and reports the number of rows removed.
//   - GET /schedules/{id}, PUT /schedules/{id}, DELETE /schedules/{id}:
//     single-schedule retrieval, full replacement and removal. A PUT re-runs
//     conflict detection with the schedule itself excluded; an overlap answers
//     409 with {"conflict": "Schedule overlaps an existing booking"}.
//   - GET /sections, POST /sections, GET /sections/{id}: course section catalog
//     endpoints exchanging the `sectionDTO` payload defined in section_handler.go.
//   - GET /rooms, POST /rooms, GET /rooms/{id}: room catalog endpoints
//     exchanging the `roomDTO` payload defined in room_handler.go.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
