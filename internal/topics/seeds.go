package topics

// Evergreen seed tables. IDs are part of the topic key, so renaming one
// resets its dedup window.

var knowhowSeeds = []seedEntry{
	{id: "first-viewing", title: "What to check at a first home viewing", body: "Water pressure, cell reception in every room, and afternoon sunlight tell you more than the listing photos ever will."},
	{id: "hidden-costs", title: "Hidden costs of moving", body: "Key money, agency fees, fire insurance, lock replacement. Budget an extra two months of rent beyond the deposit."},
	{id: "floorplan-reading", title: "Reading a floor plan properly", body: "North arrows, balcony orientation and pillar intrusions. A 2LDK with a good layout beats a bigger place with dead corners."},
	{id: "noise-check", title: "Checking noise before you sign", body: "Visit at night and on a weekend morning. Train lines and school yards keep very different hours than your weekday viewing."},
	{id: "old-vs-new", title: "Older building, better bones", body: "A well-maintained 1995 building with a solid repair fund often outlasts a flashy new build with a thin management budget."},
	{id: "station-distance", title: "The real meaning of minutes-to-station", body: "Listed walking times assume 80 meters a minute with no hills and no traffic lights. Walk it yourself, with bags."},
	{id: "repair-fund", title: "Why the repair reserve fund matters", body: "Ask for the building's repair history and fund balance. A cheap monthly fee today often means a six-figure levy later."},
	{id: "sun-orientation", title: "South-facing is not everything", body: "East light for morning people, west heat in summer. Orientation should match how you actually live, not resale folklore."},
	{id: "contract-terms", title: "Contract clauses worth reading twice", body: "Renewal fees, restoration obligations and early-exit penalties hide in the boilerplate. Ask before you stamp anything."},
	{id: "layout-storage", title: "Storage is the layout feature nobody checks", body: "Count the closets and measure the deepest one. A home with a place for the vacuum cleaner stays tidy by itself."},
}

var areaSeeds = []seedEntry{
	{id: "riverside", title: "Living by the river", body: "Morning runs and open skies, but check the hazard map and the mosquito season before falling for the view."},
	{id: "shotengai", title: "Old shopping-street neighborhoods", body: "A local shotengai means fresh vegetables, cheap dinners and neighbors who know your face. Underrated against big-mall districts."},
	{id: "terminal-station", title: "Living one stop from a terminal station", body: "Same access, noticeably lower rent, and you can actually board the train in the morning."},
	{id: "hilltop", title: "Hilltop neighborhoods", body: "Quieter, cooler in summer, and great views. Your knees and your grocery bags will cast the deciding vote."},
	{id: "bay-area", title: "Bay-area towers versus inland low-rise", body: "Wind on the balcony and elevator queues versus gardens and street parking. Two different lives at the same price."},
	{id: "university-town", title: "University-town living", body: "Cheap eats and bookstores, lively in term time, peaceful in August. Check what the street sounds like on a Friday night."},
}

var qaSeeds = []seedEntry{
	{id: "deposit-back", title: "Will I get my deposit back?", body: "Normal wear is the landlord's cost. Photograph every room on day one and the conversation at move-out gets much shorter."},
	{id: "guarantor", title: "What if I have no guarantor?", body: "Guarantor companies cover most listings now for about half a month's rent. Some landlords even prefer them."},
	{id: "renovation-ok", title: "Can I renovate a rental?", body: "More landlords allow light DIY than you'd expect, especially in older stock. Get the permission in writing, keep the old fittings."},
	{id: "pet-flats", title: "Finding a pet-friendly flat", body: "Pet-allowed listings cluster in specific buildings. Expect one extra month of deposit and check the balcony rules for cats."},
	{id: "two-keys", title: "Is a double-lock door worth it?", body: "Insurance discounts and slower break-ins say yes. It also hints the building owner actually spends money on upkeep."},
}

// seasonalSeeds is indexed by month (1-12).
var seasonalSeeds = map[int][]seedEntry{
	1:  {{id: "fresh-start", title: "New-year declutter", body: "One drawer a day beats one heroic weekend. Start with the cables."}, {id: "condensation", title: "Window condensation season", body: "Wipe sills in the morning and crack a window while cooking, or you will meet mold in March."}},
	2:  {{id: "moving-season", title: "Peak moving season is coming", body: "Book movers before the March rush and the same job costs half as much."}, {id: "heating-bills", title: "Taming the winter heating bill", body: "A thick curtain over the window does more than two extra degrees on the aircon."}},
	3:  {{id: "move-in-rush", title: "Surviving the March move-in rush", body: "Gas-opening appointments vanish first. Call the utility the day your contract is signed."}, {id: "pollen-proof", title: "Pollen-proofing your room", body: "Dry laundry indoors this month and wipe the entryway daily. Your nose will thank you."}},
	4:  {{id: "new-life", title: "Settling into a new neighborhood", body: "Find three things in week one: the cheap supermarket, the late pharmacy, and the quiet cafe."}, {id: "layout-reset", title: "Spring furniture reset", body: "Move the desk to the window before the humidity arrives. April light is free productivity."}},
	5:  {{id: "pre-rainy", title: "Prepare for the rainy season now", body: "Check balcony drains and buy the dehumidifier in May, not in the June sell-out."}, {id: "green-curtain", title: "Plant a green curtain", body: "A goya vine planted now shades the window by July and feeds you by August."}},
	6:  {{id: "rainy-laundry", title: "Rainy-season laundry tactics", body: "A fan pointed at the drying rack halves indoor drying time and stops that damp smell."}, {id: "mold-patrol", title: "Mold patrol week", body: "Run the bathroom fan two hours after every shower. The 100-yen squeegee is the best home investment there is."}},
	7:  {{id: "heat-proof", title: "Heat-proofing west windows", body: "Sun-blocking film and a sudare screen drop the room two degrees before you touch the aircon."}, {id: "summer-bills", title: "Summer power bills", body: "Aircon auto mode beats on-off cycling. Clean the filter this weekend, it pays for the beer."}},
	8:  {{id: "obon-quiet", title: "The city in mid-August", body: "Obon week is the best time to view apartments: real noise levels, honest sunlight, no crowds at the agency."}, {id: "typhoon-prep", title: "Balcony typhoon prep", body: "Anything lighter than a chair becomes a projectile. Ten minutes of tying down saves a window."}},
	9:  {{id: "typhoon-season", title: "Typhoon season checklist", body: "Tape is a myth, shutters are not. Know where your hazard map puts you before the first warning."}, {id: "autumn-airing", title: "First dry week of autumn", body: "Open every closet and let the summer humidity out. Futons first."}},
	10: {{id: "autumn-move", title: "The secret second moving season", body: "October listings are plentiful and landlords negotiate. Quieter than March, same choice."}, {id: "heater-check", title: "Test the heater before you need it", body: "The first cold night is the worst night to discover a dead pilot light."}},
	11: {{id: "insulation", title: "Cheap insulation that works", body: "Bubble-wrap film on single-pane windows is ugly and magnificent. Five degrees of difference for a thousand yen."}, {id: "year-end-plan", title: "Plan the big clean early", body: "Book the duct and balcony jobs in November and skip the December price surge."}},
	12: {{id: "year-end-clean", title: "Year-end cleaning, the short version", body: "Kitchen degrease, window tracks, drain covers. Three hours total. Everything else is optional."}, {id: "winter-window", title: "Winter window strategy", body: "Curtains to the floor, gap tape on the sash. Your feet notice before the thermometer does."}},
}
