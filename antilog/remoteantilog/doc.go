// Package remoteantilog provides an antilog that ships entries to an
// HTTP endpoint.
//
// Entries are queued and sent in batches as POST requests whose body
// holds one JSON object per line (application/x-ndjson). Each request
// carries the headers
//
//	Authorization: Bearer <APIKey>
//	X-Instance-ID: <InstanceID>
//	X-Service:     <Service>
//
// A batch is sent once it holds BatchSize entries, every FlushInterval,
// and on Close. Failed requests are not retried; the error is passed to
// QueueConfig.OnError and the batch is discarded.
package remoteantilog
