package recipebox

// Version is the current release of recipebox.
const Version = "0.1.0"
