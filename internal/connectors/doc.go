// Package connectors holds the corpus sources. The filesystem connector
// lists and reads markdown files below a root directory and watches the
// tree for changes.
package connectors
