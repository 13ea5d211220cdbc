// Package bufferstate tracks, per logical buffer, which cluster nodes hold
// a valid copy of each region of index space. It is the distributed
// validity map consulted by the command-graph generator to decide which
// chunks require a data transfer before they can run.
package bufferstate
