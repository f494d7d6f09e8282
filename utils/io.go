package utils

import (
	"bufio"
	"io"

	"devup/log"
)

// ReadLinesAsBytes splits a stream into lines and delivers them on a
// channel. The channel is closed when the stream ends. Each delivered slice
// is owned by the receiver.
func ReadLinesAsBytes(reader io.Reader) <-chan []byte {
	lines := make(chan []byte)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(reader)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())
			lines <- line
		}

		if err := scanner.Err(); err != nil {
			log.Debug("Reader finished with error: %v", err)
		}
	}()

	return lines
}
