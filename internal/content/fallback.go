package content

import "fmt"

// fallbackTips are the generic tips substituted when generation fails.
// Keyed by platform language code; English is the final fallback.
var fallbackTips = map[string]string{
	"en": "1. Set a fair price: add your material cost, your time, and a small profit. " +
		"2. Take clear photos of your products in daylight before listing them. " +
		"3. Reply to buyer messages within a day so they trust your shop.",
	"hi": "1. उचित दाम रखें: सामग्री की लागत, अपना समय और थोड़ा मुनाफ़ा जोड़ें। " +
		"2. उत्पाद सूचीबद्ध करने से पहले दिन की रोशनी में साफ़ फ़ोटो लें। " +
		"3. खरीदारों के संदेशों का एक दिन के भीतर जवाब दें ताकि वे आप पर भरोसा करें।",
	"mr": "1. योग्य किंमत ठेवा: साहित्याचा खर्च, तुमचा वेळ आणि थोडा नफा जोडा. " +
		"2. उत्पादने सूचीबद्ध करण्यापूर्वी दिवसाच्या प्रकाशात स्पष्ट फोटो काढा. " +
		"3. खरेदीदारांच्या संदेशांना एका दिवसात उत्तर द्या म्हणजे ते तुमच्यावर विश्वास ठेवतील.",
}

// FallbackTips returns the fixed generic tips for a language. Total: any
// unknown language gets the English tips.
func FallbackTips(topic, language string) string {
	tips, ok := fallbackTips[language]
	if !ok {
		tips = fallbackTips["en"]
	}
	if topic == "" {
		return tips
	}
	return fmt.Sprintf("Training tips on %s. %s", topic, tips)
}
