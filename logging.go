package taxon

import "github.com/sirupsen/logrus"

// Log is the package-level diagnostic logger, used for conditions that are
// warnings rather than errors. The one such condition the package logs is a
// destructor that had to bail out early (Value.Release); parse and format
// failures are reported only through returned errors.
// A host that wants different routing can reassign it, e.g.
// taxon.Log = myLogger.WithField("component", "taxon").Logger.
var Log = logrus.StandardLogger()
