// Package fuzztests houses Go fuzz harnesses for the dump decoders and the
// binder. Decoding may reject any input; binding whatever decodes must not
// panic or hang and must leave a consistent parent chain behind.
package fuzztests
