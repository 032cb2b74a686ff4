package server

// VERSION is reported in the initialize handshake and by --version.
const VERSION = "1.0.0"
