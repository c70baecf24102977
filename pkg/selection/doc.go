// Package selection holds the user's picks between previewing and
// downloading. A Manifest is plain data: the CLI saves it after a preview and
// loads it again for download, and the picker mutates one in memory.
package selection
