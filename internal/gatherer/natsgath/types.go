package natsgath

import "github.com/programme-lv/grader/internal/gatherer"

type natsGatherer struct {
	gatherer.Stream
	pub     Publisher
	subject string
}
