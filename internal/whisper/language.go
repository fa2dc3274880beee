package whisper

// whisperLanguages is whisper.cpp's fixed language-id table (g_lang in
// whisper.cpp), used to turn a detected language-tag token id back into
// an ISO-639-1 code for the response body.
var whisperLanguages = map[int]string{
	0: "en", 1: "zh", 2: "de", 3: "es", 4: "ru", 5: "ko", 6: "fr", 7: "ja",
	8: "pt", 9: "tr", 10: "pl", 11: "ca", 12: "nl", 13: "ar", 14: "sv",
	15: "it", 16: "id", 17: "hi", 18: "fi", 19: "vi", 20: "he", 21: "uk",
	22: "el", 23: "ms", 24: "cs", 25: "ro", 26: "da", 27: "hu", 28: "ta",
	29: "no", 30: "th", 31: "ur", 32: "hr", 33: "bg", 34: "lt", 35: "la",
	36: "mi", 37: "ml", 38: "cy", 39: "sk", 40: "te", 41: "fa", 42: "lv",
	43: "bn", 44: "sr", 45: "az", 46: "sl", 47: "kn", 48: "et", 49: "mk",
	50: "br", 51: "eu", 52: "is", 53: "hy", 54: "ne", 55: "mn", 56: "bs",
	57: "kk", 58: "sq", 59: "sw", 60: "gl", 61: "mr", 62: "pa", 63: "si",
	64: "km", 65: "sn", 66: "yo", 67: "so", 68: "af", 69: "oc", 70: "ka",
	71: "be", 72: "tg", 73: "sd", 74: "gu", 75: "am", 76: "yi", 77: "lo",
	78: "uz", 79: "fo", 80: "ht", 81: "ps", 82: "tk", 83: "nn", 84: "mt",
	85: "sa", 86: "lb", 87: "my", 88: "bo", 89: "tl", 90: "mg", 91: "as",
	92: "tt", 93: "haw", 94: "ln", 95: "ha", 96: "ba", 97: "jw", 98: "su",
}
