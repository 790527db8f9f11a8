package stream

const (
	// DefaultChunkSize is the buffer size used when Config.ChunkSize is zero.
	// Reads issued for streams with a chunk size below 2 also use it.
	DefaultChunkSize = 8192

	// DefaultPoolCap is the number of idle nodes a pool keeps around.
	DefaultPoolCap = 1024

	// DefaultPoolShards is the shard count of a sharded pool built from EnvConfig.
	DefaultPoolShards = 8

	// Unbuffered selects the smallest chunk size of 1: any Write leaving more
	// than one byte pending is flushed right away.
	Unbuffered = -1

	// IterLines makes Next and Blocks yield lines instead of blocks.
	IterLines = 1
)

// ShutdownMode selects which direction of a socket is shut down when a
// SocketStream is closed.
type ShutdownMode int

const (
	// NoShutdown closes the socket instead of shutting it down.
	NoShutdown ShutdownMode = -1
	ShutRD     ShutdownMode = 0
	ShutWR     ShutdownMode = 1
	ShutRDWR   ShutdownMode = 2
)

func (m ShutdownMode) String() string {
	switch m {
	case ShutRD:
		return "SHUT_RD"
	case ShutWR:
		return "SHUT_WR"
	case ShutRDWR:
		return "SHUT_RDWR"
	default:
		return "none"
	}
}

// socketName is what a SocketStream reports as its name.
const socketName = "<socket>"
