package extract

var (
	ContentText    = contentText
	ReadPDFContent = readPDFContent
)
