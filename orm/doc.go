/*
Package orm provides an easy to use db wrapper

Models are stored in buckets, each bucket prefixing keys with its name, so
that many buckets can share the same store. Sequences generate
monotonically increasing, big endian encoded keys.
*/
package orm
