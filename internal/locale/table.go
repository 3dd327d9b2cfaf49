// Package locale holds the fixed localized response table for the
// fulfillment gateway. Lookups are pure and total: every supported intent
// has an English entry, unknown languages fall back to English, and unknown
// intents resolve to the designated fallback text.
package locale

// Supported language codes.
const (
	LangEnglish = "en"
	LangHindi   = "hi"
	LangMarathi = "mr"
)

// FallbackKey is the table entry used when an intent is not recognized.
const FallbackKey = "fallback"

// table maps intent key -> language -> response text. Hand-maintained so
// the recognized set stays auditable; see resolver_test for the exhaustive
// coverage over this table.
var table = map[string]map[string]string{
	"Welcome": {
		LangEnglish: "Welcome to NEK Connect! I can share product details, business training, and marketplace updates. Press 1 for English, 2 for Hindi, or 3 for Marathi.",
		LangHindi:   "NEK Connect में आपका स्वागत है! मैं उत्पाद जानकारी, व्यवसाय प्रशिक्षण और बाज़ार की जानकारी दे सकती हूँ। अंग्रेज़ी के लिए 1, हिंदी के लिए 2, मराठी के लिए 3 दबाएँ।",
		LangMarathi: "NEK Connect मध्ये आपले स्वागत आहे! मी उत्पादन माहिती, व्यवसाय प्रशिक्षण आणि बाजारपेठ अपडेट देऊ शकते. इंग्रजीसाठी 1, हिंदीसाठी 2, मराठीसाठी 3 दाबा.",
	},
	"Options": {
		LangEnglish: "Please choose an option. Press 1 for product information, 2 for business training, or 3 for the marketplace.",
		LangHindi:   "कृपया एक विकल्प चुनें। उत्पाद जानकारी के लिए 1, व्यवसाय प्रशिक्षण के लिए 2, बाज़ार के लिए 3 दबाएँ।",
		LangMarathi: "कृपया एक पर्याय निवडा. उत्पादन माहितीसाठी 1, व्यवसाय प्रशिक्षणासाठी 2, बाजारपेठेसाठी 3 दाबा.",
	},
	"ProductInfo": {
		LangEnglish: "Your handcrafted products are listed on NEK Connect with photos and fair prices. Buyers across the country can see them and place orders directly.",
		LangHindi:   "आपके हस्तनिर्मित उत्पाद NEK Connect पर फ़ोटो और उचित दाम के साथ सूचीबद्ध हैं। देश भर के खरीदार उन्हें देखकर सीधे ऑर्डर दे सकते हैं।",
		LangMarathi: "तुमची हस्तनिर्मित उत्पादने NEK Connect वर फोटो आणि योग्य किमतीसह सूचीबद्ध आहेत. देशभरातील खरेदीदार ती पाहून थेट ऑर्डर देऊ शकतात.",
	},
	"Training": {
		LangEnglish: "We will send simple business training tips to your WhatsApp shortly. The tips cover pricing, quality, and selling online.",
		LangHindi:   "हम जल्द ही आपके WhatsApp पर आसान व्यवसाय प्रशिक्षण सुझाव भेजेंगे। इनमें दाम तय करना, गुणवत्ता और ऑनलाइन बिक्री शामिल है।",
		LangMarathi: "आम्ही लवकरच तुमच्या WhatsApp वर सोप्या व्यवसाय प्रशिक्षण टिप्स पाठवू. त्यात किंमत ठरवणे, गुणवत्ता आणि ऑनलाइन विक्री यांचा समावेश आहे.",
	},
	"Marketplace": {
		LangEnglish: "The NEK Connect marketplace connects you directly with buyers, with no middlemen. You keep the full earnings from every sale.",
		LangHindi:   "NEK Connect बाज़ार आपको बिना बिचौलियों के सीधे खरीदारों से जोड़ता है। हर बिक्री की पूरी कमाई आपकी रहती है।",
		LangMarathi: "NEK Connect बाजारपेठ तुम्हाला मध्यस्थांशिवाय थेट खरेदीदारांशी जोडते. प्रत्येक विक्रीची पूर्ण कमाई तुमचीच राहते.",
	},
	"Goodbye": {
		LangEnglish: "Thank you for calling NEK Connect. Goodbye, and best wishes for your business!",
		LangHindi:   "NEK Connect को कॉल करने के लिए धन्यवाद। नमस्ते, आपके व्यवसाय के लिए शुभकामनाएँ!",
		LangMarathi: "NEK Connect ला कॉल केल्याबद्दल धन्यवाद. नमस्कार, तुमच्या व्यवसायासाठी शुभेच्छा!",
	},
	FallbackKey: {
		LangEnglish: "Sorry, I did not understand that. Please try again.",
		LangHindi:   "माफ़ कीजिए, मैं समझ नहीं पाई। कृपया फिर से कोशिश करें।",
		LangMarathi: "माफ करा, मला ते समजले नाही. कृपया पुन्हा प्रयत्न करा.",
	},
}

// Resolve returns the response text for the given intent key and language.
// Unknown languages fall back to English; unknown intent keys resolve to
// the fallback entry for the resolved language. Never returns "".
func Resolve(intentKey, language string) string {
	if !Supported(language) {
		language = LangEnglish
	}
	entries, ok := table[intentKey]
	if !ok {
		entries = table[FallbackKey]
	}
	if text, ok := entries[language]; ok {
		return text
	}
	return entries[LangEnglish]
}

// Supported reports whether language is one of the platform's languages.
func Supported(language string) bool {
	switch language {
	case LangEnglish, LangHindi, LangMarathi:
		return true
	}
	return false
}

// Languages lists the supported language codes.
func Languages() []string {
	return []string{LangEnglish, LangHindi, LangMarathi}
}

// Intents lists the intent keys present in the table, excluding the
// fallback entry.
func Intents() []string {
	keys := make([]string, 0, len(table)-1)
	for k := range table {
		if k == FallbackKey {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}
