// Package transfer implements the TransferManager: the per-node component
// that turns push/await_push commands into actual buffer data movement
// over a Transport, grounded almost line-for-line on
// original_source/src/buffer_transfer_manager.cc.
package transfer
