// Package wizard implements the step-by-step flow a user goes through to get a
// script package: idle, language selection, topic selection, generation, and
// finally results or an error.
//
// A Machine owns the state of one session. Every operation is serialized by a
// mutex; the model call runs as a background task whose completion is fed back
// into the same Machine. Render projects a Snapshot onto a view description
// without touching the Machine.
package wizard
