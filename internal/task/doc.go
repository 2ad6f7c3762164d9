// Package task manages background job queuing, processing, and lifecycle.
// Script generations run here so that an HTTP request choosing a topic returns
// as soon as the wizard enters its generating step, while the model call runs
// on a bounded pool of workers.
package task
