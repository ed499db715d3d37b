// Package mdhash contains hand-written SHA-1 and MD4 digests whose internal
// state can be exported and resumed, which is what length-extension attacks need.
//
// Both types implement hash.Hash and agree with crypto/sha1 and
// golang.org/x/crypto/md4.
package mdhash
