// Package stream provides buffered streams over arbitrary byte endpoints.
//
// A Stream wraps an endpoint (a file, a pipe, a socket or anything exposing
// some of the capability interfaces of this package) and adds:
//
//   - buffered reads with exact-size, slurp and line modes, and push-back of
//     bytes read past the end of a line
//   - write coalescing, with a flush once more than a chunk is buffered
//   - iteration over lines or fixed size blocks
//
// Buffered data lives in chains of immutable blocks. Chain nodes are
// recycled through a NodePool shared by all streams (DefaultPool unless
// configured otherwise).
//
// Sockets are adapted with SocketStream, which closes a connection by
// shutting down one direction. Conn and Dialer build on it to hand out
// reader and writer streams for TCP connections.
//
// Basic usage:
//
//	s := stream.New(file, stream.Config{})
//	defer s.Close()
//
//	for line, err := range s.Blocks() {
//		if err != nil {
//			return err
//		}
//		process(line)
//	}
//
// End of data is reported as io.EOF, never together with data. Streams are
// not safe for concurrent use.
package stream
