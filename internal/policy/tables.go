package policy

func defaultSensitiveKeywords() []string {
	return []string{
		"privacy",
		"legal",
		"security",
		"compliance",
		"retention",
		"dataprotection",
		"dpo",
		"gdpr",
		"infosec",
		"trust",
		"secops",
		"abuse",
		"counsel",
		"whistleblow",
		"ethics",
	}
}

func defaultGenericDomainRoots() []string {
	return []string{
		"web", "development", "software", "developer", "engineering", "marketing",
		"sales", "design", "startup", "agency", "portfolio", "recruiter", "hr",
		"talent", "jobs", "hiring", "career", "careers", "consulting",
	}
}

func defaultKnownDomains() map[string]string {
	return map[string]string{
		"google":     "google.com",
		"microsoft":  "microsoft.com",
		"amazon":     "amazon.com",
		"meta":       "meta.com",
		"facebook":   "meta.com",
		"apple":      "apple.com",
		"netflix":    "netflix.com",
		"uber":       "uber.com",
		"airbnb":     "airbnb.com",
		"spotify":    "spotify.com",
		"linkedin":   "linkedin.com",
		"twitter":    "twitter.com",
		"tesla":      "tesla.com",
		"salesforce": "salesforce.com",
		"adobe":      "adobe.com",
		"oracle":     "oracle.com",
		"ibm":        "ibm.com",
		"intel":      "intel.com",
		"nvidia":     "nvidia.com",
		"paypal":     "paypal.com",
		"dropbox":    "dropbox.com",
		"slack":      "slack.com",
		"zoom":       "zoom.us",
		"shopify":    "shopify.com",
		"stripe":     "stripe.com",
		"square":     "squareup.com",
		"twilio":     "twilio.com",
		"github":     "github.com",
		"gitlab":     "gitlab.com",
		"atlassian":  "atlassian.com",
		"mongodb":    "mongodb.com",
		"redis":      "redis.com",
		"docker":     "docker.com",
		"kubernetes": "kubernetes.io",
		"rapido":     "rapido.bike",
		"zomato":     "zomato.com",
		"swiggy":     "swiggy.com",
		"ola":        "olacabs.com",
		"flipkart":   "flipkart.com",
		"paytm":      "paytm.com",
		"byju":       "byjus.com",
		"unacademy":  "unacademy.com",
		"zerodha":    "zerodha.com",
		"razorpay":   "razorpay.com",
		"freshworks": "freshworks.com",
	}
}

func defaultLargeCompanies() []string {
	return []string{
		"google", "alphabet", "microsoft", "amazon", "meta", "facebook", "apple",
		"netflix", "tesla", "oracle", "ibm", "intel", "nvidia", "salesforce",
		"adobe", "linkedin", "twitter", "uber", "airbnb", "paypal",
	}
}

func defaultLargeCompanyDomains() []string {
	return []string{
		"google.com", "microsoft.com", "amazon.com", "meta.com", "facebook.com",
		"apple.com", "netflix.com", "tesla.com", "oracle.com", "ibm.com",
		"intel.com", "nvidia.com", "salesforce.com", "adobe.com", "linkedin.com",
		"twitter.com", "uber.com", "airbnb.com", "paypal.com",
	}
}
