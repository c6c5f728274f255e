package local

var MarkTransient = markTransient
