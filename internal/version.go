package internal

// Version of copywords
const Version = "0.4.0"
