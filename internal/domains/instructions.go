package domains

const membershipInstructions = `Each data row describes one membership plan.
Column names vary. Map them as follows:
- "Name", "Membership" -> membership_name
- "Discount %" -> discount_percentage
- "Billing Cycle", "Frequency" -> payment_frequency (monthly, yearly or both; null when not given)
- "Initial Fee" -> setup_fee
- "Monthly Fee" -> monthly_fee
- "Annual Fee" -> yearly_fee
- "Terms" -> membership_agreement
- "Wallet" -> add_to_wallet
- "Client Portal" -> show_on_portal
- "Free Items" -> discounts_or_free_items
- "Details" -> membership_description
- "Included Products" -> free_monthly_products
Fees and percentages are plain numbers without currency symbols.`

const packageInstructions = `The "discounts" sheet lists discounts with the columns Discount Name,
Discount Type, Discount Amount, Discount Applied On, If Products List Here,
If Categories List Here, What Locations?, What Providers?, Start Date, End Date.
The optional "packages" sheet lists packages with the columns Package Name,
Package Type, Number of Treatments/Sessions, Price, Member Price,
Is this available for purchase in your online portal?,
What products or group of products is included in this package?,
Describe how this package works, What Locations?, What Providers?,
Start Date, End Date.
Return discounts and packages together under "packages":
- Rows of the packages sheet get discount_type "package" and use the package
  name as discount_name.
- "Percentage" maps to percentage and "Fixed Amount" to fixed. A percentage
  discount fills discount_percentage, a fixed one fills discount_amount.
- Products or categories listed for a discount mean apply_to
  selected_products with the names in included_products; otherwise
  all_products.
- Packages only available in the online portal to members get
  customer_availability members_only.
- Dates are YYYY-MM-DD.
- Use null for any value that is not given.`

const staffInstructions = `The "staff" sheet lists one staff member per row. The optional "hours"
sheet lists working hours per staff member; attach them to the matching
staff member's schedule.
- Split a full name into first_name and last_name.
- role is one of provider, admin, front_desk, medical_director.
  Nurses, injectors and estheticians are providers.
- is_provider is true for providers.
- Schedule times are 24 hour HH:MM, e.g. 09:00 and 17:30. A day without
  hours is unavailable with no shifts.
- assigned_locations lists the clinic names the person works at.`

const serviceInstructions = `Each data row describes one service offered at a clinic.
- service_type is "virtual" for online services and "inperson" otherwise
  (default inperson).
- service_duration is in minutes; "1 hour" becomes 60. Default 30.
- online_booking_enabled defaults to true, capture_card to false and
  deposit_amount to 0.
- providers, available_clinics and incompatible_services are lists split
  from comma or newline separated text.
- Skip rows that are not service data, such as section titles or totals.`

const equipmentInstructions = `The "equipment" sheet lists devices: name, the clinic that houses it, its
weekly schedule, the services that require it and the cleanup time in
minutes after each use.
The "resources" sheet lists rooms and other resources: name, clinic,
resource type, weekly schedule and the services that require it.
Schedule times are 24 hour HH:MM. A day that is not listed is unavailable.
Return equipment rows under "equipment" and resource rows under "resources".`

const inventoryInstructions = `Each data row after the header describes one product.
- Cost to company, Price, Member Price and Tax are numbers without currency
  or percent symbols.
- units defaults to 0 and description to an empty string.`
