// Command pingprobe pings a single host on a fixed interval and writes the
// round-trip time and packet loss of every probe to InfluxDB.
package main

import (
	"context"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logrus.WithError(err).Fatal("pingprobe failed")
	}
}
