// Package netutil hands out free local ports.
// Its central type, PortRegistry, tracks ports reserved by this process so that
// concurrent callers never receive the same port between the moment the kernel
// picks it and the moment a server binds it.
package netutil
