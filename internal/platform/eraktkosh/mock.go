package eraktkosh

import (
	"context"
	"math/rand"
	"sync"

	"github.com/bloodlink/bloodlink/pkg/blood"
)

// MockProvider serves a curated table of Indian blood banks and ABDM
// facilities. Stock figures are jittered slightly per call so dashboards
// look live. It implements both StockProvider and FacilityRegistry.
type MockProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewMockProvider(seed int64) *MockProvider {
	return &MockProvider{rng: rand.New(rand.NewSource(seed))}
}

var mockBloodBanks = map[blood.Group][]StockListing{
	blood.OPositive: {
		{ID: 1, HospitalName: "Tata Memorial Hospital Blood Bank", DistanceKM: 2.3, Address: "Dr. E Borges Road, Parel, Mumbai - 400012", Contact: "022-24177000", Component: "Whole Blood", StockUnits: 45, City: "Mumbai", State: "Maharashtra", Latitude: 19.0185, Longitude: 72.8436},
		{ID: 2, HospitalName: "KEM Hospital Blood Bank", DistanceKM: 3.1, Address: "Acharya Donde Marg, Parel, Mumbai - 400012", Contact: "022-24136051", Component: "Whole Blood", StockUnits: 32, City: "Mumbai", State: "Maharashtra", Latitude: 19.0028, Longitude: 72.8399},
		{ID: 3, HospitalName: "JJ Hospital Blood Bank", DistanceKM: 4.5, Address: "J.J. Marg, Nagpada, Mumbai - 400008", Contact: "022-23739600", Component: "Packed RBC", StockUnits: 28, City: "Mumbai", State: "Maharashtra", Latitude: 18.9616, Longitude: 72.8329},
		{ID: 4, HospitalName: "Lilavati Hospital Blood Bank", DistanceKM: 5.2, Address: "A-791, Bandra Reclamation, Mumbai - 400050", Contact: "022-26751000", Component: "Whole Blood", StockUnits: 52, City: "Mumbai", State: "Maharashtra", Latitude: 19.0511, Longitude: 72.8258},
	},
	blood.APositive: {
		{ID: 1, HospitalName: "AIIMS Blood Bank", DistanceKM: 1.8, Address: "Sri Aurobindo Marg, Ansari Nagar, New Delhi - 110029", Contact: "011-26588500", Component: "Whole Blood", StockUnits: 67, City: "New Delhi", State: "Delhi", Latitude: 28.5670, Longitude: 77.2100},
		{ID: 2, HospitalName: "Safdarjung Hospital Blood Bank", DistanceKM: 2.5, Address: "Ring Road, Safdarjung Enclave, New Delhi - 110029", Contact: "011-26730000", Component: "Packed RBC", StockUnits: 38, City: "New Delhi", State: "Delhi", Latitude: 28.5684, Longitude: 77.1906},
		{ID: 3, HospitalName: "Apollo Hospital Blood Bank", DistanceKM: 4.2, Address: "Sarita Vihar, Mathura Road, New Delhi - 110076", Contact: "011-29871000", Component: "Whole Blood", StockUnits: 54, City: "New Delhi", State: "Delhi", Latitude: 28.5369, Longitude: 77.2917},
	},
	blood.BPositive: {
		{ID: 1, HospitalName: "CMC Vellore Blood Bank", DistanceKM: 0.8, Address: "Ida Scudder Road, Vellore - 632004", Contact: "0416-2281000", Component: "Whole Blood", StockUnits: 89, City: "Vellore", State: "Tamil Nadu", Latitude: 12.9272, Longitude: 79.1325},
		{ID: 2, HospitalName: "Apollo Hospitals Blood Bank", DistanceKM: 3.4, Address: "Greams Lane, Chennai - 600006", Contact: "044-28293333", Component: "Packed RBC", StockUnits: 56, City: "Chennai", State: "Tamil Nadu", Latitude: 13.0645, Longitude: 80.2520},
	},
	blood.ABPositive: {
		{ID: 1, HospitalName: "Manipal Hospital Blood Bank", DistanceKM: 2.1, Address: "98, HAL Old Airport Road, Bangalore - 560017", Contact: "080-25024444", Component: "Whole Blood", StockUnits: 24, City: "Bangalore", State: "Karnataka", Latitude: 12.9602, Longitude: 77.6433},
		{ID: 2, HospitalName: "Narayana Hrudayalaya", DistanceKM: 5.3, Address: "258/A, Bommasandra, Bangalore - 560099", Contact: "080-71222222", Component: "Platelets", StockUnits: 15, City: "Bangalore", State: "Karnataka", Latitude: 12.8093, Longitude: 77.6975},
	},
	blood.ONegative: {
		{ID: 1, HospitalName: "Ruby Hall Clinic Blood Bank", DistanceKM: 1.5, Address: "40, Sassoon Road, Pune - 411001", Contact: "020-66455000", Component: "Whole Blood", StockUnits: 12, City: "Pune", State: "Maharashtra", Latitude: 18.5297, Longitude: 73.8760},
		{ID: 2, HospitalName: "Jehangir Hospital Blood Bank", DistanceKM: 3.2, Address: "32, Sassoon Road, Pune - 411001", Contact: "020-66815555", Component: "Packed RBC", StockUnits: 8, City: "Pune", State: "Maharashtra", Latitude: 18.5293, Longitude: 73.8732},
	},
	blood.ANegative: {
		{ID: 1, HospitalName: "PGI Chandigarh Blood Bank", DistanceKM: 1.2, Address: "Sector 12, Chandigarh - 160012", Contact: "0172-2747585", Component: "Whole Blood", StockUnits: 18, City: "Chandigarh", State: "Chandigarh", Latitude: 30.7634, Longitude: 76.7796},
		{ID: 2, HospitalName: "Max Hospital Blood Bank", DistanceKM: 4.5, Address: "Phase 6, Mohali - 160055", Contact: "0172-6652000", Component: "FFP", StockUnits: 11, City: "Mohali", State: "Punjab", Latitude: 30.7311, Longitude: 76.7214},
	},
	blood.BNegative: {
		{ID: 1, HospitalName: "KGMU Blood Bank", DistanceKM: 2.4, Address: "Shah Mina Road, Lucknow - 226003", Contact: "0522-2258181", Component: "Whole Blood", StockUnits: 9, City: "Lucknow", State: "Uttar Pradesh", Latitude: 26.8679, Longitude: 80.9138},
	},
	blood.ABNegative: {
		{ID: 1, HospitalName: "NIMHANS Blood Bank", DistanceKM: 3.6, Address: "Hosur Road, Bangalore - 560029", Contact: "080-26995000", Component: "Whole Blood", StockUnits: 5, City: "Bangalore", State: "Karnataka", Latitude: 12.9365, Longitude: 77.5956},
	},
}

var mockFacilities = []Facility{
	{ID: 1, FacilityID: "FAC001", Name: "Apollo Hospitals", Address: "Greams Lane, Off Greams Road", City: "Chennai", State: "Tamil Nadu", Pincode: "600006", Contact: "044-28293333", Email: "info@apollohospitals.com", Latitude: 13.0569, Longitude: 80.2425, DistanceKM: 2.5, FacilityType: "Multi-Specialty Hospital"},
	{ID: 2, FacilityID: "FAC002", Name: "Fortis Healthcare", Address: "Sector 62, Phase VIII", City: "Mohali", State: "Punjab", Pincode: "160062", Contact: "0172-5096000", Email: "info@fortishealthcare.com", Latitude: 30.7046, Longitude: 76.7179, DistanceKM: 1.8, FacilityType: "Multi-Specialty Hospital"},
	{ID: 3, FacilityID: "FAC003", Name: "Max Super Speciality Hospital", Address: "Press Enclave Road", City: "Saket, New Delhi", State: "Delhi", Pincode: "110017", Contact: "011-26515050", Email: "info@maxhealthcare.com", Latitude: 28.5244, Longitude: 77.2067, DistanceKM: 3.2, FacilityType: "Super Specialty Hospital"},
	{ID: 4, FacilityID: "FAC004", Name: "Manipal Hospital", Address: "98, Rustom Bagh", City: "Bangalore", State: "Karnataka", Pincode: "560017", Contact: "080-25024444", Email: "info@manipalhospitals.com", Latitude: 12.9698, Longitude: 77.6489, DistanceKM: 4.1, FacilityType: "Multi-Specialty Hospital"},
	{ID: 5, FacilityID: "FAC005", Name: "Medanta - The Medicity", Address: "Sector 38", City: "Gurugram", State: "Haryana", Pincode: "122001", Contact: "0124-4141414", Email: "info@medanta.org", Latitude: 28.4353, Longitude: 77.0535, DistanceKM: 5.5, FacilityType: "Multi-Specialty Hospital"},
	{ID: 6, FacilityID: "FAC006", Name: "Narayana Health", Address: "258/A, Bommasandra Industrial Area", City: "Bangalore", State: "Karnataka", Pincode: "560099", Contact: "080-71222222", Email: "info@narayanahealth.org", Latitude: 12.8050, Longitude: 77.6869, DistanceKM: 6.8, FacilityType: "Cardiac Care Hospital"},
	{ID: 7, FacilityID: "FAC007", Name: "Kokilaben Dhirubhai Ambani Hospital", Address: "Four Bungalows, Andheri West", City: "Mumbai", State: "Maharashtra", Pincode: "400053", Contact: "022-30999999", Email: "info@kokilabenhospital.com", Latitude: 19.1266, Longitude: 72.8304, DistanceKM: 3.7, FacilityType: "Multi-Specialty Hospital"},
	{ID: 8, FacilityID: "FAC008", Name: "Breach Candy Hospital", Address: "60-A, Bhulabhai Desai Road", City: "Mumbai", State: "Maharashtra", Pincode: "400026", Contact: "022-23667788", Email: "info@breachcandyhospital.org", Latitude: 18.9732, Longitude: 72.8008, DistanceKM: 2.9, FacilityType: "General Hospital"},
}

// NearbyStock returns the curated listings for the group, falling back to
// O+ when none exist, with ±5 unit jitter (floored at 1).
func (p *MockProvider) NearbyStock(_ context.Context, _, _ float64, group blood.Group) ([]StockListing, error) {
	listings, ok := mockBloodBanks[group]
	if !ok {
		listings = mockBloodBanks[blood.OPositive]
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]StockListing, len(listings))
	for i, l := range listings {
		l.StockUnits += p.rng.Intn(11) - 5
		if l.StockUnits < 1 {
			l.StockUnits = 1
		}
		out[i] = l
	}
	return out, nil
}

// NearbyFacilities returns facilities within radiusKM of the caller.
func (p *MockProvider) NearbyFacilities(_ context.Context, _, _ float64, radiusKM float64) ([]Facility, error) {
	var out []Facility
	for _, f := range mockFacilities {
		if radiusKM <= 0 || f.DistanceKM <= radiusKM {
			out = append(out, f)
		}
	}
	return out, nil
}
