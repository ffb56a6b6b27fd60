package api

// Transport-level error messages, kept in Hebrew to match the view text
// produced by the service layer.
const (
	msgBadParams    = "פרמטרים חסרים או בלתי חוקיים בכתובת ה-URL."
	msgBadType      = "פרמטר סוג בלתי חוקי."
	msgNoGameFormat = "לא נמצאו נתונים לתאריך %s. נא בחר תאריך אחר."
	msgItemNotFound = "לא נמצא פריט מתאים לסוג ול-ID הנבחרים."
	msgInternal     = "שגיאה בטעינת הנתונים. אנא נסה שוב מאוחר יותר."
)
